package models

type CapacityResult struct {
	// Maximum embeddable message size in bytes after framing overhead.
	MaxMessageBytes int `json:"max_message_bytes"`
	TotalPixels     int `json:"total_pixels"`
	FrameCount      int `json:"frame_count"`
	FrameWidth      int `json:"frame_width"`
	FrameHeight     int `json:"frame_height"`
}
