package service

import (
	"bytes"
	"fmt"
	"log"
	"math"
	"os"
	"os/exec"
	"strconv"
	"strings"

	"github.com/simratima/VidStegX/models"
)

// videoService implements the VideoService interface on top of ffmpeg.
// Decoding accepts whatever ffmpeg can read; encoding always produces
// FFV1 in Matroska. The whole scheme depends on the output codec being
// lossless: anything that re-quantises pixels destroys the embedded LSBs.
type videoService struct {
	ffmpegPath  string
	ffprobePath string
}

// NewVideoService creates a new video service instance. Binary locations can
// be overridden with FFMPEG_PATH and FFPROBE_PATH.
func NewVideoService() VideoService {
	ffmpeg := os.Getenv("FFMPEG_PATH")
	if ffmpeg == "" {
		ffmpeg = "ffmpeg"
	}
	ffprobe := os.Getenv("FFPROBE_PATH")
	if ffprobe == "" {
		ffprobe = "ffprobe"
	}
	return &videoService{ffmpegPath: ffmpeg, ffprobePath: ffprobe}
}

// probeGeometry reads width, height and frame rate of the first video stream.
func (v *videoService) probeGeometry(path string) (width, height int, fps float64, err error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.Command(v.ffprobePath,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,r_frame_rate",
		"-of", "csv=p=0",
		path)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return 0, 0, 0, fmt.Errorf("ffprobe failed: %v, stderr: %s", err, stderr.String())
	}

	fields := strings.Split(strings.TrimSpace(stdout.String()), ",")
	if len(fields) < 3 {
		return 0, 0, 0, fmt.Errorf("unexpected ffprobe output: %q", stdout.String())
	}

	width, err = strconv.Atoi(fields[0])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid width %q", fields[0])
	}
	height, err = strconv.Atoi(fields[1])
	if err != nil {
		return 0, 0, 0, fmt.Errorf("invalid height %q", fields[1])
	}
	fps, err = parseFrameRate(fields[2])
	if err != nil {
		return 0, 0, 0, err
	}
	return width, height, fps, nil
}

// parseFrameRate parses ffprobe's rational frame rate ("30/1", "30000/1001").
func parseFrameRate(s string) (float64, error) {
	num, den, found := strings.Cut(s, "/")
	if !found {
		return strconv.ParseFloat(s, 64)
	}
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid frame rate %q", s)
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return 0, fmt.Errorf("invalid frame rate %q", s)
	}
	return n / d, nil
}

// DecodeFrames decodes a video file into an ordered list of 24-bit frames.
func (v *videoService) DecodeFrames(videoData []byte) ([]*Frame, float64, error) {
	if len(videoData) == 0 {
		return nil, 0, models.ErrInvalidVideo
	}

	tmp, err := os.CreateTemp("", "vidstegx-in-*.bin")
	if err != nil {
		return nil, 0, fmt.Errorf("failed to create temp file: %v", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(videoData); err != nil {
		tmp.Close()
		return nil, 0, fmt.Errorf("failed to write temp file: %v", err)
	}
	tmp.Close()

	width, height, fps, err := v.probeGeometry(tmp.Name())
	if err != nil {
		log.Printf("[ERROR] DecodeFrames: probe failed: %v", err)
		return nil, 0, models.ErrInvalidVideo
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.Command(v.ffmpegPath,
		"-v", "error",
		"-i", tmp.Name(),
		"-f", "rawvideo",
		"-pix_fmt", "bgr24",
		"-")
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		log.Printf("[ERROR] DecodeFrames: ffmpeg failed: %v, stderr: %s", err, stderr.String())
		return nil, 0, models.ErrInvalidVideo
	}

	raw := stdout.Bytes()
	frameSize := width * height * bytesPerPixel
	if frameSize == 0 || len(raw) < frameSize {
		return nil, 0, models.ErrInvalidVideo
	}

	frames := make([]*Frame, 0, len(raw)/frameSize)
	for off := 0; off+frameSize <= len(raw); off += frameSize {
		pix := make([]byte, frameSize)
		copy(pix, raw[off:off+frameSize])
		frame, err := NewFrameWithStride(width, height, width*bytesPerPixel, pix)
		if err != nil {
			return nil, 0, err
		}
		frames = append(frames, frame)
	}

	log.Printf("[DEBUG] DecodeFrames: decoded %d frames (%dx%d @ %.2f fps)", len(frames), width, height, fps)
	return frames, fps, nil
}

// EncodeFrames encodes frames as FFV1 in a Matroska container.
func (v *videoService) EncodeFrames(frames []*Frame, fps float64) ([]byte, error) {
	if err := validateFrames(frames); err != nil {
		return nil, err
	}
	if fps <= 0 {
		fps = 30
	}

	width, height := frames[0].Width, frames[0].Height

	out, err := os.CreateTemp("", "vidstegx-out-*.mkv")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %v", err)
	}
	out.Close()
	defer os.Remove(out.Name())

	var stdin bytes.Buffer
	stdin.Grow(len(frames) * width * height * bytesPerPixel)
	for _, f := range frames {
		stdin.Write(packFrame(f))
	}

	var stderr bytes.Buffer
	cmd := exec.Command(v.ffmpegPath,
		"-y",
		"-v", "error",
		"-f", "rawvideo",
		"-pix_fmt", "bgr24",
		"-s", fmt.Sprintf("%dx%d", width, height),
		"-r", strconv.FormatFloat(fps, 'f', -1, 64),
		"-i", "-",
		"-c:v", "ffv1",
		"-level", "3",
		out.Name())
	cmd.Stdin = &stdin
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("ffmpeg encoding failed: %v, stderr: %s", err, stderr.String())
	}

	encoded, err := os.ReadFile(out.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to read encoded video: %v", err)
	}

	log.Printf("[DEBUG] EncodeFrames: encoded %d frames to FFV1/MKV (%d bytes)", len(frames), len(encoded))
	return encoded, nil
}

// packFrame returns the frame's pixels as tightly packed top-down rows.
func packFrame(f *Frame) []byte {
	if f.Stride == f.Width*bytesPerPixel {
		return f.Pix
	}
	packed := make([]byte, f.Width*f.Height*bytesPerPixel)
	i := 0
	for y := 0; y < f.Height; y++ {
		rowStart := f.offset(0, y)
		copy(packed[i:i+f.Width*bytesPerPixel], f.Pix[rowStart:rowStart+f.Width*bytesPerPixel])
		i += f.Width * bytesPerPixel
	}
	return packed
}

// CalculatePSNR computes one PSNR between two frame sequences from the mean
// squared error over all three colour channels of every pixel of every
// frame. Identical sequences report 99.0 dB.
func (v *videoService) CalculatePSNR(original, modified []*Frame) float64 {
	if len(original) != len(modified) || len(original) == 0 {
		log.Printf("[WARN] CalculatePSNR: sequence length mismatch - original: %d, modified: %d", len(original), len(modified))
		return 0.0
	}

	var mse float64
	var samples int
	for i := range original {
		a, b := original[i], modified[i]
		if a.Width != b.Width || a.Height != b.Height {
			log.Printf("[WARN] CalculatePSNR: frame %d dimension mismatch", i)
			return 0.0
		}
		for y := 0; y < a.Height; y++ {
			for x := 0; x < a.Width; x++ {
				ao, bo := a.offset(x, y), b.offset(x, y)
				for c := 0; c < bytesPerPixel; c++ {
					diff := float64(a.Pix[ao+c]) - float64(b.Pix[bo+c])
					mse += diff * diff
					samples++
				}
			}
		}
	}

	mse /= float64(samples)
	if mse == 0 {
		return 99.0
	}

	psnr := 10 * math.Log10(255*255/mse)
	log.Printf("[DEBUG] CalculatePSNR: MSE=%.6f, PSNR=%.2f dB (samples: %d)", mse, psnr, samples)
	return psnr
}
