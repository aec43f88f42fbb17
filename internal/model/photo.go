package model

// PhotoMemory is the photo captured for one calendar date. FileID is the
// Telegram file reference used to re-send the image.
type PhotoMemory struct {
	Date    string `json:"date"`
	FileID  string `json:"fileId"`
	Caption string `json:"caption,omitempty"`
}

// PhotoIndex maps date key -> photo. At most one photo exists per date;
// capturing again replaces the day's memory.
type PhotoIndex map[string]PhotoMemory
