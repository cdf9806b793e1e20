package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os/exec"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/simratima/VidStegX/models"
	"github.com/simratima/VidStegX/service"
)

// Handlers struct holds service dependencies
type Handlers struct {
	steganographyService service.SteganographyService
	videoService         service.VideoService
}

// NewHandlers creates a new handlers instance with service dependencies
func NewHandlers(
	stegoService service.SteganographyService,
	videoService service.VideoService,
) *Handlers {
	return &Handlers{
		steganographyService: stegoService,
		videoService:         videoService,
	}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Tools     map[string]string `json:"tools"`
}

// CapacityResponse represents the capacity calculation response
type CapacityResponse struct {
	Capacity         models.CapacityResult `json:"capacity"`
	FileInfo         FileInfo              `json:"file_info"`
	ProcessingTimeMs int                   `json:"processing_time_ms"`
}

// ExtractResponse represents the extraction response
type ExtractResponse struct {
	Message          string `json:"message"`
	HashValid        bool   `json:"hash_valid"`
	ProcessingTimeMs int    `json:"processing_time_ms"`
}

// FileInfo represents video file information
type FileInfo struct {
	Filename   string  `json:"filename"`
	SizeBytes  int     `json:"size_bytes"`
	FrameRate  float64 `json:"frame_rate,omitempty"`
	FrameCount int     `json:"frame_count,omitempty"`
}

// HealthHandler handles the health check endpoint
//
//	@Summary		Health Check
//	@Description	Returns the health status of the API service
//	@Tags			System
//	@Produce		json
//	@Success		200	{object}	HealthResponse	"Service is healthy"
//	@Router			/health [get]
func (h *Handlers) HealthHandler(c *gin.Context) {
	startTime := time.Now()

	tools := make(map[string]string, 2)
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			tools[bin] = "missing"
		} else {
			tools[bin] = "available"
		}
	}

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   "1.0.0",
		Tools:     tools,
	}

	processingTime := time.Since(startTime).Milliseconds()
	c.Header("X-Processing-Time", strconv.FormatInt(processingTime, 10))
	c.JSON(http.StatusOK, response)
}

// CalculateCapacityHandler handles the capacity calculation request
//
//	@Summary		Calculate Video Embedding Capacity
//	@Description	Calculates the maximum size of a secret message (in bytes) that can be reversibly embedded into the uploaded video. Each payload bit costs two pixels; the framing adds a fixed 36-byte overhead.
//	@Tags			Steganography
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			video	formData	file					true	"Video file to calculate capacity for."
//	@Success		200		{object}	CapacityResponse		"Successfully calculated embedding capacity."
//	@Failure		400		{object}	models.ErrorResponse	"Bad Request: No file uploaded or file is not a decodable video."
//	@Failure		413		{object}	models.ErrorResponse	"File too large"
//	@Failure		500		{object}	models.ErrorResponse	"Internal Server Error: Failed to process the file."
//	@Router			/capacity [post]
func (h *Handlers) CalculateCapacityHandler(c *gin.Context) {
	startTime := time.Now()
	requestID := traceID(c)

	log.Printf("[INFO] [%s] CalculateCapacityHandler: Starting capacity calculation request from %s", requestID, c.ClientIP())

	videoData, fileHeader, ok := readFormFile(c, "video")
	if !ok {
		return
	}

	frames, fps, err := h.videoService.DecodeFrames(videoData)
	if err != nil {
		log.Printf("[ERROR] [%s] CalculateCapacityHandler: decode failed: %v", requestID, err)
		sendError(c, http.StatusBadRequest, "INVALID_VIDEO", "Failed to decode video file")
		return
	}

	capacity, err := h.steganographyService.CalculateCapacity(frames)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "PROCESSING_ERROR", "Failed to calculate capacity")
		return
	}

	processingTime := int(time.Since(startTime).Milliseconds())
	response := CapacityResponse{
		Capacity: *capacity,
		FileInfo: FileInfo{
			Filename:   fileHeader.Filename,
			SizeBytes:  len(videoData),
			FrameRate:  fps,
			FrameCount: len(frames),
		},
		ProcessingTimeMs: processingTime,
	}

	c.Header("X-Processing-Time", strconv.Itoa(processingTime))
	c.JSON(http.StatusOK, response)
}

// EmbedHandler hides a secret message in a video file
//
//	@Summary		Embed secret message into video
//	@Description	Reversibly embeds a text message into the provided video using key-driven chaotic LSB steganography. The response is a lossless FFV1/Matroska video; re-encoding it with a lossy codec destroys the hidden message. Keys must be 4-32 characters.
//	@Tags			Steganography
//	@Accept			multipart/form-data
//	@Produce		video/x-matroska
//	@Param			video			formData	file	true	"Cover video file"
//	@Param			message			formData	string	true	"Secret message to embed"
//	@Param			key				formData	string	true	"Steganography key"
//	@Param			output_filename	formData	string	false	"Output stego video filename"
//	@Success		200	{file}		binary					"Stego video with embedded message"
//	@Failure		400	{object}	models.ErrorResponse	"Invalid input or message exceeds capacity"
//	@Failure		500	{object}	models.ErrorResponse	"Processing error"
//	@Router			/embed [post]
func (h *Handlers) EmbedHandler(c *gin.Context) {
	startTime := time.Now()
	requestID := traceID(c)

	videoData, _, ok := readFormFile(c, "video")
	if !ok {
		return
	}

	message := c.PostForm("message")
	if message == "" {
		sendError(c, http.StatusBadRequest, "MISSING_MESSAGE", "Secret message not provided")
		return
	}
	key, ok := requireKey(c)
	if !ok {
		return
	}

	frames, fps, err := h.videoService.DecodeFrames(videoData)
	if err != nil {
		log.Printf("[ERROR] [%s] EmbedHandler: decode failed: %v", requestID, err)
		sendError(c, http.StatusBadRequest, "INVALID_VIDEO", "Failed to decode video file")
		return
	}

	stegoFrames, err := h.steganographyService.Embed(frames, message, key, nil)
	if err != nil {
		status := http.StatusInternalServerError
		code := "PROCESSING_ERROR"
		if errors.Is(err, models.ErrCapacityExceeded) {
			status = http.StatusBadRequest
			code = "CAPACITY_EXCEEDED"
		} else if errors.Is(err, models.ErrEmptyKey) || errors.Is(err, models.ErrEmptyMessage) || errors.Is(err, models.ErrEmptyFrames) {
			status = http.StatusBadRequest
			code = "INVALID_INPUT"
		}
		sendError(c, status, code, "Failed to embed message: "+err.Error())
		return
	}

	psnr := h.videoService.CalculatePSNR(frames, stegoFrames)

	stegoVideo, err := h.videoService.EncodeFrames(stegoFrames, fps)
	if err != nil {
		log.Printf("[ERROR] [%s] EmbedHandler: encode failed: %v", requestID, err)
		sendError(c, http.StatusInternalServerError, "ENCODING_ERROR", "Failed to encode stego video")
		return
	}

	processingTime := int(time.Since(startTime).Milliseconds())
	outputFilename := c.PostForm("output_filename")
	if outputFilename == "" {
		outputFilename = "stego_video.mkv"
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", outputFilename))
	c.Header("X-PSNR-Value", fmt.Sprintf("%.2f", psnr))
	c.Header("X-Embedding-Method", "chaotic-reversible-LSB")
	c.Header("X-Secret-Size", strconv.Itoa(len(message)))
	c.Header("X-Processing-Time", strconv.Itoa(processingTime))
	c.Header("X-Output-Format", "FFV1/MKV")

	c.Data(http.StatusOK, "video/x-matroska", stegoVideo)
}

// ExtractHandler recovers a hidden message from a stego video
//
//	@Summary		Extract secret message from video
//	@Description	Extracts a message previously embedded with the same key and verifies its SHA-256 digest. A wrong key yields hash_valid=false and a diagnostic message instead of plausible-looking text.
//	@Tags			Steganography
//	@Accept			multipart/form-data
//	@Produce		json
//	@Param			stego_video	formData	file	true	"Stego video file (lossless, with embedded message)"
//	@Param			key			formData	string	true	"Steganography key used at embed time"
//	@Success		200	{object}	ExtractResponse			"Extraction result"
//	@Failure		400	{object}	models.ErrorResponse	"Invalid input"
//	@Failure		422	{object}	ExtractResponse			"Wrong key, no hidden message, or corrupted data"
//	@Failure		500	{object}	models.ErrorResponse	"Extraction error"
//	@Router			/extract [post]
func (h *Handlers) ExtractHandler(c *gin.Context) {
	startTime := time.Now()
	requestID := traceID(c)

	videoData, _, ok := readFormFile(c, "stego_video")
	if !ok {
		return
	}

	key, ok := requireKey(c)
	if !ok {
		return
	}

	frames, _, err := h.videoService.DecodeFrames(videoData)
	if err != nil {
		log.Printf("[ERROR] [%s] ExtractHandler: decode failed: %v", requestID, err)
		sendError(c, http.StatusBadRequest, "INVALID_VIDEO", "Failed to decode video file")
		return
	}

	result, err := h.steganographyService.Extract(frames, key, nil, nil)
	processingTime := int(time.Since(startTime).Milliseconds())

	response := ExtractResponse{
		Message:          result.Message,
		HashValid:        result.HashValid,
		ProcessingTimeMs: processingTime,
	}
	c.Header("X-Extraction-Method", "chaotic-reversible-LSB")
	c.Header("X-Processing-Time", strconv.Itoa(processingTime))

	if err != nil {
		if errors.Is(err, models.ErrInvalidLength) || errors.Is(err, models.ErrHashMismatch) || errors.Is(err, models.ErrCapacityExceeded) {
			c.JSON(http.StatusUnprocessableEntity, response)
			return
		}
		sendError(c, http.StatusInternalServerError, "EXTRACTION_ERROR", "Failed to extract data: "+err.Error())
		return
	}

	c.JSON(http.StatusOK, response)
}

// requireKey reads and validates the key form field. The embedding core only
// needs a non-empty key; the 4-32 character window is the API contract, so
// out-of-window keys are rejected here before any video work happens.
func requireKey(c *gin.Context) (string, bool) {
	key := c.PostForm("key")
	if key == "" {
		sendError(c, http.StatusBadRequest, "MISSING_KEY", "Steganography key not provided")
		return "", false
	}
	if n := len([]rune(key)); n < 4 || n > 32 {
		sendError(c, http.StatusBadRequest, "INVALID_KEY", "Steganography key must be 4-32 characters")
		return "", false
	}
	return key, true
}

// readFormFile fetches and fully reads a multipart upload, handling error
// responses itself.
func readFormFile(c *gin.Context, field string) ([]byte, *multipartHeader, bool) {
	fileHeader, err := c.FormFile(field)
	if err != nil {
		sendError(c, http.StatusBadRequest, "MISSING_FILE", fmt.Sprintf("%s file not provided", field))
		return nil, nil, false
	}

	if fileHeader.Size > 500*1024*1024 {
		sendError(c, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "File size exceeds maximum limit of 500MB")
		return nil, nil, false
	}

	file, err := fileHeader.Open()
	if err != nil {
		sendError(c, http.StatusInternalServerError, "PROCESSING_ERROR", "Failed to open uploaded file")
		return nil, nil, false
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		sendError(c, http.StatusInternalServerError, "PROCESSING_ERROR", "Failed to read file content")
		return nil, nil, false
	}
	return data, &multipartHeader{Filename: fileHeader.Filename, Size: fileHeader.Size}, true
}

type multipartHeader struct {
	Filename string
	Size     int64
}

func traceID(c *gin.Context) string {
	if id := c.GetString("trace_id"); id != "" {
		return id
	}
	return fmt.Sprintf("req_%d", time.Now().UnixNano())
}

// sendError sends a standardized error response
func sendError(c *gin.Context, statusCode int, code string, message string) {
	errorResponse := models.ErrorResponse{
		Success: false,
		Error: models.ErrorDetail{
			Message: message,
			Details: map[string]interface{}{
				"code": code,
			},
		},
	}

	c.JSON(statusCode, errorResponse)
}
