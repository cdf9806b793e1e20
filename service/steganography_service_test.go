package service

import (
	"errors"
	"strings"
	"testing"

	"lukechampine.com/frand"

	"github.com/simratima/VidStegX/models"
)

// makeTestFrames builds a sequence of random-content cover frames.
func makeTestFrames(t *testing.T, count, width, height int) []*Frame {
	t.Helper()
	frames := make([]*Frame, count)
	for i := range frames {
		f, err := NewFrame(width, height)
		if err != nil {
			t.Fatalf("NewFrame failed: %v", err)
		}
		frand.Read(f.Pix)
		frames[i] = f
	}
	return frames
}

// makeConstantFrames builds frames where every pixel has the same colour.
func makeConstantFrames(t *testing.T, count, width, height int, b, g, r byte) []*Frame {
	t.Helper()
	frames := make([]*Frame, count)
	for i := range frames {
		f, err := NewFrame(width, height)
		if err != nil {
			t.Fatalf("NewFrame failed: %v", err)
		}
		for off := 0; off < len(f.Pix); off += 3 {
			f.Pix[off], f.Pix[off+1], f.Pix[off+2] = b, g, r
		}
		frames[i] = f
	}
	return frames
}

func framesEqual(a, b []*Frame) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func TestEmbedValidation(t *testing.T) {
	svc := NewSteganographyService()
	frames := makeTestFrames(t, 2, 64, 64)

	if _, err := svc.Embed(nil, "msg", "key", nil); !errors.Is(err, models.ErrEmptyFrames) {
		t.Errorf("nil frames: got %v, want ErrEmptyFrames", err)
	}
	if _, err := svc.Embed(frames, "msg", "", nil); !errors.Is(err, models.ErrEmptyKey) {
		t.Errorf("empty key: got %v, want ErrEmptyKey", err)
	}
	if _, err := svc.Embed(frames, "msg", "   ", nil); !errors.Is(err, models.ErrEmptyKey) {
		t.Errorf("whitespace key: got %v, want ErrEmptyKey", err)
	}
	if _, err := svc.Embed(frames, "", "key", nil); !errors.Is(err, models.ErrEmptyMessage) {
		t.Errorf("empty message: got %v, want ErrEmptyMessage", err)
	}

	other, err := NewFrame(32, 32)
	if err != nil {
		t.Fatalf("NewFrame failed: %v", err)
	}
	mixed := append([]*Frame{}, frames...)
	mixed = append(mixed, other)
	if _, err := svc.Embed(mixed, "msg", "key", nil); !errors.Is(err, models.ErrFrameMismatch) {
		t.Errorf("mixed dimensions: got %v, want ErrFrameMismatch", err)
	}
}

func TestEmbedExtractRoundTrip(t *testing.T) {
	cases := []struct {
		name    string
		frames  int
		width   int
		height  int
		message string
		key     string
	}{
		{"S1_basic", 10, 320, 240, "Hello, World! This is a test message.", "SecretKey123"},
		{"S2_large_message", 50, 640, 480, strings.Repeat("A", 1024), "LargeTestKey"},
		{"S5_unicode", 10, 320, 240, "Hello 😀 🌍", "Key"},
		{"single_character", 10, 320, 240, "A", "SecretKey123"},
		{"single_frame", 1, 640, 480, "one frame is enough", "SingleFrameKey"},
		{"ten_kilobytes", 6, 640, 480, strings.Repeat("0123456789", 1024), "BulkKey"},
	}

	svc := NewSteganographyService()

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cover := makeTestFrames(t, tc.frames, tc.width, tc.height)
			original := cloneFrames(cover)

			stego, err := svc.Embed(cover, tc.message, tc.key, nil)
			if err != nil {
				t.Fatalf("Embed failed: %v", err)
			}

			// The caller's frames are untouched by embedding.
			if !framesEqual(cover, original) {
				t.Fatal("Embed mutated the caller's frames")
			}
			if framesEqual(stego, original) {
				t.Fatal("stego frames are identical to the cover")
			}

			result, err := svc.Extract(stego, tc.key, nil, nil)
			if err != nil {
				t.Fatalf("Extract failed: %v", err)
			}
			if !result.HashValid {
				t.Error("hash_valid = false, want true")
			}
			if result.Message != tc.message {
				t.Errorf("recovered message differs: got %d bytes, want %d bytes", len(result.Message), len(tc.message))
			}
		})
	}
}

// S6: after extraction the caller's stego frames equal the original cover.
func TestExtractRestoresCover(t *testing.T) {
	svc := NewSteganographyService()
	cover := makeTestFrames(t, 50, 320, 240)
	original := cloneFrames(cover)

	stego, err := svc.Embed(cover, "A", "SecretKey123", nil)
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	result, err := svc.Extract(stego, "SecretKey123", nil, nil)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if !result.HashValid {
		t.Fatal("hash_valid = false")
	}

	if !framesEqual(stego, original) {
		t.Error("extraction did not restore the cover bit-for-bit")
	}
}

// S3: extraction with the wrong key must fail loudly, never return
// plausible-looking text.
func TestWrongKeyRejected(t *testing.T) {
	svc := NewSteganographyService()
	cover := makeTestFrames(t, 10, 320, 240)

	stego, err := svc.Embed(cover, "Secret message", "CorrectKey", nil)
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	result, err := svc.Extract(stego, "WrongKey", nil, nil)
	if err == nil {
		t.Fatal("Extract with wrong key succeeded")
	}
	if result.HashValid {
		t.Error("hash_valid = true with wrong key")
	}
	if !errors.Is(err, models.ErrInvalidLength) &&
		!errors.Is(err, models.ErrHashMismatch) &&
		!errors.Is(err, models.ErrCapacityExceeded) {
		t.Errorf("unexpected error kind: %v", err)
	}
	if result.Message == "Secret message" {
		t.Error("wrong key recovered the real message")
	}
	if !strings.HasPrefix(result.Message, "[ERROR") {
		t.Errorf("result message should be a bracketed diagnostic, got %q", result.Message)
	}
}

func TestExtractOnPlainCover(t *testing.T) {
	svc := NewSteganographyService()
	cover := makeTestFrames(t, 5, 160, 120)

	result, err := svc.Extract(cover, "AnyKey", nil, nil)
	if err == nil {
		t.Fatal("Extract on a plain cover succeeded")
	}
	if result.HashValid {
		t.Error("hash_valid = true on a plain cover")
	}
}

// S4 plus the capacity law boundary: 2*(4+L+32)*8 <= F*W*H.
func TestCapacityLaw(t *testing.T) {
	svc := NewSteganographyService()

	// One 40x40 frame holds exactly 1600 pixels = 16*(36+64): a 64-byte
	// message is exactly capacity, 65 bytes is one over.
	exact := makeTestFrames(t, 1, 40, 40)
	if _, err := svc.Embed(exact, strings.Repeat("x", 64), "CapKey", nil); err != nil {
		t.Errorf("message of exactly the capacity failed: %v", err)
	}

	over := makeTestFrames(t, 1, 40, 40)
	if _, err := svc.Embed(over, strings.Repeat("x", 65), "CapKey", nil); !errors.Is(err, models.ErrCapacityExceeded) {
		t.Errorf("one byte over capacity: got %v, want ErrCapacityExceeded", err)
	}

	// S4: 2 frames of 100x100, message beyond 20000/16 - 36 bytes.
	s4 := makeTestFrames(t, 2, 100, 100)
	if _, err := svc.Embed(s4, strings.Repeat("x", 20000/8), "CapKey", nil); !errors.Is(err, models.ErrCapacityExceeded) {
		t.Errorf("S4: got %v, want ErrCapacityExceeded", err)
	}
}

func TestCalculateCapacity(t *testing.T) {
	svc := NewSteganographyService()

	if _, err := svc.CalculateCapacity(nil); !errors.Is(err, models.ErrEmptyFrames) {
		t.Errorf("nil frames: got %v, want ErrEmptyFrames", err)
	}

	frames := makeTestFrames(t, 10, 320, 240)
	capacity, err := svc.CalculateCapacity(frames)
	if err != nil {
		t.Fatalf("CalculateCapacity failed: %v", err)
	}

	if capacity.TotalPixels != 10*320*240 {
		t.Errorf("TotalPixels = %d, want %d", capacity.TotalPixels, 10*320*240)
	}
	want := 10*320*240/16 - 36
	if capacity.MaxMessageBytes != want {
		t.Errorf("MaxMessageBytes = %d, want %d", capacity.MaxMessageBytes, want)
	}
	if capacity.FrameCount != 10 || capacity.FrameWidth != 320 || capacity.FrameHeight != 240 {
		t.Error("frame geometry not reported")
	}

	// A sequence too small to even hold the framing reports zero.
	tiny := makeTestFrames(t, 1, 10, 10)
	capacity, err = svc.CalculateCapacity(tiny)
	if err != nil {
		t.Fatalf("CalculateCapacity failed: %v", err)
	}
	if capacity.MaxMessageBytes != 0 {
		t.Errorf("tiny sequence MaxMessageBytes = %d, want 0", capacity.MaxMessageBytes)
	}
}

func TestConstantColourRoundTrip(t *testing.T) {
	svc := NewSteganographyService()
	cover := makeConstantFrames(t, 10, 320, 240, 0x80, 0x80, 0x80)

	stego, err := svc.Embed(cover, "flat cover", "FlatKey", nil)
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	result, err := svc.Extract(stego, "FlatKey", nil, nil)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if !result.HashValid || result.Message != "flat cover" {
		t.Errorf("round trip failed on constant-colour frames: %+v", result)
	}
}

func TestBottomUpStrideRoundTrip(t *testing.T) {
	svc := NewSteganographyService()

	const w, h = 320, 240
	frames := make([]*Frame, 10)
	for i := range frames {
		pix := make([]byte, w*h*3)
		frand.Read(pix)
		f, err := NewFrameWithStride(w, h, -w*3, pix)
		if err != nil {
			t.Fatalf("NewFrameWithStride failed: %v", err)
		}
		frames[i] = f
	}

	stego, err := svc.Embed(frames, "stride agnostic", "StrideKey", nil)
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	result, err := svc.Extract(stego, "StrideKey", nil, nil)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if !result.HashValid || result.Message != "stride agnostic" {
		t.Errorf("round trip failed on bottom-up frames: %+v", result)
	}
}

func TestProgressReporting(t *testing.T) {
	svc := NewSteganographyService()
	cover := makeTestFrames(t, 4, 160, 120)

	var percents []float64
	progress := func(percent float64, frameIndex int) {
		if percent < 0 || percent > 100 {
			t.Errorf("percent %f out of range", percent)
		}
		if frameIndex < 0 || frameIndex >= len(cover) {
			t.Errorf("frame index %d out of range", frameIndex)
		}
		percents = append(percents, percent)
	}

	stego, err := svc.Embed(cover, "watch me work", "ProgressKey", progress)
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	if len(percents) == 0 {
		t.Fatal("no progress reported")
	}
	for i := 1; i < len(percents); i++ {
		if percents[i] < percents[i-1] {
			t.Fatalf("progress regressed at %d: %f -> %f", i, percents[i-1], percents[i])
		}
	}
	if last := percents[len(percents)-1]; last < 99 {
		t.Errorf("final progress %f, want ~100", last)
	}

	// Extraction reports through the same contract, and an absent callback
	// must not change behaviour.
	percents = percents[:0]
	if _, err := svc.Extract(cloneFrames(stego), "ProgressKey", nil, progress); err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if len(percents) == 0 {
		t.Error("extraction reported no progress")
	}
}

func TestMessageSink(t *testing.T) {
	svc := NewSteganographyService()
	cover := makeTestFrames(t, 4, 160, 120)

	stego, err := svc.Embed(cover, "delivered", "SinkKey", nil)
	if err != nil {
		t.Fatalf("Embed failed: %v", err)
	}

	var sunk string
	result, err := svc.Extract(stego, "SinkKey", func(m string) { sunk = m }, nil)
	if err != nil {
		t.Fatalf("Extract failed: %v", err)
	}
	if sunk != result.Message || sunk != "delivered" {
		t.Errorf("sink received %q, want %q", sunk, "delivered")
	}
}
