package service

import (
	"github.com/simratima/VidStegX/models"
)

// ProgressFunc receives advisory progress updates: a percentage in [0,100]
// and the index of the frame the current work touches. Embedding reports
// 0-50 during the payload phase and 50-100 during the side-info phase;
// extraction mirrors that for its read passes.
type ProgressFunc func(percent float64, frameIndex int)

// MessageFunc receives the recovered message once extraction verifies.
type MessageFunc func(message string)

// SteganographyService defines the reversible video steganography operations
type SteganographyService interface {
	// CalculateCapacity reports how large a message the frame sequence can carry
	CalculateCapacity(frames []*Frame) (*models.CapacityResult, error)

	// Embed hides a message in a clone of the frames and returns the stego clone
	Embed(frames []*Frame, message, key string, progress ProgressFunc) ([]*Frame, error)

	// Extract recovers a hidden message and restores the supplied frames to
	// the original cover as a side effect
	Extract(frames []*Frame, key string, sink MessageFunc, progress ProgressFunc) (*models.ExtractResult, error)
}

// VideoService defines the lossless frame source/sink and quality metrics
type VideoService interface {
	// DecodeFrames decodes a video file into 24-bit frames plus its frame rate
	DecodeFrames(videoData []byte) ([]*Frame, float64, error)

	// EncodeFrames encodes frames into a lossless video container
	EncodeFrames(frames []*Frame, fps float64) ([]byte, error)

	// CalculatePSNR computes the PSNR between two frame sequences from their
	// pooled mean squared error
	CalculatePSNR(original, modified []*Frame) float64
}
