// conf/consts.go hard coded constants
package conf

const (
	SampleRate  = 16000 // Sample rate of the audio fed to the sound classifier
	BitDepth    = 16    // Bit depth of the audio fed to the sound classifier
	NumChannels = 1     // Number of channels of the audio fed to the sound classifier

	ImageInputSize = 260 // Square edge length of the image classifier input
)
