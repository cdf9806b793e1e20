package models

import (
	"errors"
	"fmt"
)

// Predefined errors for steganography operations
var (
	ErrEmptyFrames      = errors.New("no video frames provided")
	ErrEmptyKey         = errors.New("steganography key cannot be empty")
	ErrEmptyMessage     = errors.New("secret message cannot be empty")
	ErrCapacityExceeded = errors.New("insufficient video capacity for the provided message")
	ErrInvalidLength    = errors.New("invalid message length - wrong key or no hidden message")
	ErrHashMismatch     = errors.New("hash mismatch - wrong key or corrupted data")
	ErrFrameMismatch    = errors.New("all frames must share the same dimensions")
	ErrInvalidVideo     = errors.New("failed to decode video data, not a valid video file")
	ErrInternal         = errors.New("internal extraction error")
)

// InvalidLengthMessage is the user-visible text placed in the extraction
// result when the length prefix is unreadable or out of range.
func InvalidLengthMessage(length int32) string {
	return fmt.Sprintf("[ERROR: Invalid message length (%d). Wrong key or no hidden message.]", length)
}

// CapacityExceededMessage is the user-visible text placed in the extraction
// result when the length prefix parsed validly but implies a payload larger
// than the video can hold.
func CapacityExceededMessage(length int32, totalPixels int) string {
	return fmt.Sprintf("[ERROR: Message of length %d does not fit in %d pixels. Wrong key or truncated video.]", length, totalPixels)
}

// HashMismatchMessage is the user-visible text placed in the extraction
// result when the payload digest does not verify.
const HashMismatchMessage = "[ERROR: HASH MISMATCH - Wrong key or corrupted data]"

// ExtractionErrorMessage wraps an unexpected failure for display.
func ExtractionErrorMessage(detail string) string {
	return fmt.Sprintf("[EXTRACTION ERROR: %s]", detail)
}

type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
