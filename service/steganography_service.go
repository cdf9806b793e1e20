package service

import (
	"log"
	"strings"

	"github.com/simratima/VidStegX/models"
)

// stegoService implements the SteganographyService interface
type stegoService struct{}

// NewSteganographyService creates a new steganography service instance
func NewSteganographyService() SteganographyService {
	return &stegoService{}
}

// splitIndex decomposes a global pixel index into (frame, x, y).
func splitIndex(p, width, height int) (frame, x, y int) {
	perFrame := width * height
	frame = p / perFrame
	rem := p % perFrame
	return frame, rem % width, rem / width
}

// progressReporter rate-limits advisory callbacks to whole-percent changes.
type progressReporter struct {
	fn   ProgressFunc
	last int
}

func newProgressReporter(fn ProgressFunc) *progressReporter {
	return &progressReporter{fn: fn, last: -1}
}

func (r *progressReporter) report(percent float64, frameIndex int) {
	if r.fn == nil {
		return
	}
	if p := int(percent); p != r.last {
		r.last = p
		r.fn(percent, frameIndex)
	}
}

// CalculateCapacity reports the embeddable message size for a frame sequence.
// Each payload bit costs two pixels (one for the bit, one for the displaced
// LSB), and the framing adds a fixed length-prefix and digest overhead.
func (s *stegoService) CalculateCapacity(frames []*Frame) (*models.CapacityResult, error) {
	if err := validateFrames(frames); err != nil {
		return nil, err
	}

	w, h := frames[0].Width, frames[0].Height
	totalPixels := len(frames) * w * h

	maxMessage := totalPixels/16 - frameOverhead
	if maxMessage < 0 {
		maxMessage = 0
	}

	return &models.CapacityResult{
		MaxMessageBytes: maxMessage,
		TotalPixels:     totalPixels,
		FrameCount:      len(frames),
		FrameWidth:      w,
		FrameHeight:     h,
	}, nil
}

// Embed hides the message in a clone of the frames.
//
// Phase A walks the chaotic sequence once per payload bit, recording each
// displaced blue LSB as side-info before overwriting it. Phase B continues
// the same stream for another run and writes the side-info bits, which is
// what makes the cover recoverable later. A position may be selected more
// than once; later writes win.
func (s *stegoService) Embed(frames []*Frame, message, key string, progress ProgressFunc) ([]*Frame, error) {
	if err := validateFrames(frames); err != nil {
		return nil, err
	}
	if strings.TrimSpace(key) == "" {
		return nil, models.ErrEmptyKey
	}
	if message == "" {
		return nil, models.ErrEmptyMessage
	}

	seq, err := NewChaoticSequence(key)
	if err != nil {
		return nil, err
	}

	payload := buildPayload([]byte(message))
	totalBits := len(payload) * 8

	width, height := frames[0].Width, frames[0].Height
	totalPixels := len(frames) * width * height
	if 2*totalBits > totalPixels {
		log.Printf("[WARN] Embed: capacity exceeded - need %d pixels, have %d", 2*totalBits, totalPixels)
		return nil, models.ErrCapacityExceeded
	}

	log.Printf("[DEBUG] Embed: embedding %d payload bits into %d frames (%dx%d, %d pixels)",
		totalBits, len(frames), width, height, totalPixels)

	stego := cloneFrames(frames)
	accessors := make([]*PixelAccessor, len(stego))
	for i, f := range stego {
		accessors[i] = f.AcquirePixels()
	}
	defer func() {
		for _, acc := range accessors {
			acc.Release()
		}
	}()

	reporter := newProgressReporter(progress)
	sideInfo := make([]byte, (totalBits+7)/8)

	// Phase A: payload bits, displaced LSBs recorded as side-info.
	for i := 0; i < totalBits; i++ {
		p := seq.NextIndex(totalPixels)
		fi, x, y := splitIndex(p, width, height)
		acc := accessors[fi]

		blue := acc.Blue(x, y)
		setBit(sideInfo, i, blue&1)
		acc.SetBlue(x, y, blue&0xFE|bitAt(payload, i))

		reporter.report(50*float64(i+1)/float64(totalBits), fi)
	}

	// Phase B: side-info bits ride the same stream, no reset.
	for i := 0; i < totalBits; i++ {
		p := seq.NextIndex(totalPixels)
		fi, x, y := splitIndex(p, width, height)
		acc := accessors[fi]

		acc.SetBlue(x, y, acc.Blue(x, y)&0xFE|bitAt(sideInfo, i))

		reporter.report(50+50*float64(i+1)/float64(totalBits), fi)
	}

	log.Printf("[DEBUG] Embed: successfully embedded %d bits (+%d side-info bits)", totalBits, totalBits)
	return stego, nil
}

// Extract recovers the message hidden in the frames and, as a final step,
// writes the recovered original LSBs back into the caller's frames.
//
// Three passes over one stream: a 32-bit length probe, a reset, then the
// payload and side-info reads back to back. Restoration replays the payload
// positions with a fresh sequence and runs even when the digest fails, so a
// wrong-key attempt does not leave the frames half-modified.
func (s *stegoService) Extract(frames []*Frame, key string, sink MessageFunc, progress ProgressFunc) (*models.ExtractResult, error) {
	result := &models.ExtractResult{}

	if err := validateFrames(frames); err != nil {
		result.Message = models.ExtractionErrorMessage(err.Error())
		return result, err
	}
	if strings.TrimSpace(key) == "" {
		result.Message = models.ExtractionErrorMessage(models.ErrEmptyKey.Error())
		return result, models.ErrEmptyKey
	}

	seq, err := NewChaoticSequence(key)
	if err != nil {
		result.Message = models.ExtractionErrorMessage(err.Error())
		return result, err
	}

	width, height := frames[0].Width, frames[0].Height
	totalPixels := len(frames) * width * height

	// All reads go against a clone; the caller's frames are only touched
	// during restoration.
	work := cloneFrames(frames)
	accessors := make([]*PixelAccessor, len(work))
	for i, f := range work {
		accessors[i] = f.AcquirePixels()
	}
	defer func() {
		for _, acc := range accessors {
			acc.Release()
		}
	}()

	readBit := func(p int) byte {
		fi, x, y := splitIndex(p, width, height)
		return accessors[fi].Blue(x, y) & 1
	}

	// Pass 0: length probe.
	lengthPrefix := make([]byte, lengthPrefixSize)
	for i := 0; i < lengthPrefixSize*8; i++ {
		setBit(lengthPrefix, i, readBit(seq.NextIndex(totalPixels)))
	}
	length, err := parseLength(lengthPrefix)
	if err != nil {
		log.Printf("[WARN] Extract: invalid length prefix %d", length)
		result.Message = models.InvalidLengthMessage(length)
		return result, err
	}

	seq.Reset()
	payloadBytes := frameOverhead + int(length)
	totalBits := 8 * payloadBytes
	if 2*totalBits > totalPixels {
		log.Printf("[WARN] Extract: implied payload of %d bits exceeds capacity of %d pixels", totalBits, totalPixels)
		result.Message = models.CapacityExceededMessage(length, totalPixels)
		return result, models.ErrCapacityExceeded
	}

	log.Printf("[DEBUG] Extract: reading %d-byte payload from %d frames", payloadBytes, len(frames))

	reporter := newProgressReporter(progress)

	// Pass 1: payload bits from the replayed stream.
	payload := make([]byte, payloadBytes)
	for i := 0; i < totalBits; i++ {
		p := seq.NextIndex(totalPixels)
		fi, _, _ := splitIndex(p, width, height)
		setBit(payload, i, readBit(p))
		reporter.report(50*float64(i+1)/float64(totalBits), fi)
	}

	// Pass 2: side-info bits, continuing the same stream.
	sideInfo := make([]byte, (totalBits+7)/8)
	for i := 0; i < totalBits; i++ {
		p := seq.NextIndex(totalPixels)
		fi, _, _ := splitIndex(p, width, height)
		setBit(sideInfo, i, readBit(p))
		reporter.report(50+50*float64(i+1)/float64(totalBits), fi)
	}

	message, verifyErr := verifyPayload(payload, length)

	// Restoration replays the payload positions with a fresh sequence and
	// writes into the caller's frames. Best effort on verification failure:
	// with the wrong key the restored LSBs are themselves meaningless.
	restoreSeq, err := NewChaoticSequence(key)
	if err != nil {
		result.Message = models.ExtractionErrorMessage(err.Error())
		return result, models.ErrInternal
	}
	callerAccessors := make([]*PixelAccessor, len(frames))
	for i, f := range frames {
		callerAccessors[i] = f.AcquirePixels()
	}
	for i := 0; i < totalBits; i++ {
		p := restoreSeq.NextIndex(totalPixels)
		fi, x, y := splitIndex(p, width, height)
		acc := callerAccessors[fi]
		acc.SetBlue(x, y, acc.Blue(x, y)&0xFE|bitAt(sideInfo, i))
	}
	for _, acc := range callerAccessors {
		acc.Release()
	}

	if verifyErr != nil {
		log.Printf("[WARN] Extract: payload digest mismatch")
		result.Message = models.HashMismatchMessage
		return result, verifyErr
	}

	result.Message = string(message)
	result.HashValid = true
	if sink != nil {
		sink(result.Message)
	}

	log.Printf("[INFO] Extract: recovered %d-byte message, cover restored", length)
	return result, nil
}
