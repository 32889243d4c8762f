package extract

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ytdlpInfo is the subset of "yt-dlp -J" output the service reads.
type ytdlpInfo struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Uploader   string  `json:"uploader"`
	Channel    string  `json:"channel"`
	Thumbnail  string  `json:"thumbnail"`
	Duration   float64 `json:"duration"`
	UploadDate string  `json:"upload_date"`
	WebpageURL string  `json:"webpage_url"`
	Thumbnails []struct {
		URL string `json:"url"`
	} `json:"thumbnails"`
	Formats []ytdlpFormat `json:"formats"`
}

type ytdlpFormat struct {
	FormatID       string  `json:"format_id"`
	Ext            string  `json:"ext"`
	VCodec         *string `json:"vcodec"`
	ACodec         *string `json:"acodec"`
	FormatNote     string  `json:"format_note"`
	Resolution     string  `json:"resolution"`
	Height         int     `json:"height"`
	ABR            float64 `json:"abr"`
	Filesize       float64 `json:"filesize"`
	FilesizeApprox float64 `json:"filesize_approx"`
	MimeType       string  `json:"mime_type"`
}

// parseYtdlpInfo decodes a yt-dlp JSON dump.
func parseYtdlpInfo(data []byte) (*Info, error) {
	var raw ytdlpInfo
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode yt-dlp JSON: %w", err)
	}

	info := &Info{
		ID:         raw.ID,
		URL:        raw.WebpageURL,
		Title:      raw.Title,
		Author:     raw.Uploader,
		Thumbnail:  raw.Thumbnail,
		Duration:   raw.Duration,
		UploadDate: raw.UploadDate,
		Formats:    make([]Format, 0, len(raw.Formats)),
	}
	if info.Author == "" {
		info.Author = raw.Channel
	}
	for _, t := range raw.Thumbnails {
		if t.URL != "" {
			info.Thumbnails = append(info.Thumbnails, t.URL)
		}
	}

	for _, rf := range raw.Formats {
		f := Format{
			ID:        rf.FormatID,
			Ext:       rf.Ext,
			MimeType:  rf.MimeType,
			Note:      rf.FormatNote,
			Quality:   rf.Resolution,
			Height:    rf.Height,
			HasVideo:  codecPresent(rf.VCodec),
			HasAudio:  codecPresent(rf.ACodec),
			AudioKbps: rf.ABR,
			Filesize:  int64(rf.Filesize),
			SizeHint:  int64(rf.Filesize),
		}
		if f.SizeHint == 0 {
			f.SizeHint = int64(rf.FilesizeApprox)
		}
		if f.Quality == "" && f.Height > 0 {
			f.Quality = strconv.Itoa(f.Height) + "p"
		}
		if f.MimeType == "" {
			f.MimeType = mimeFromExt(f.Ext, f.HasVideo, f.HasAudio)
		}
		info.Formats = append(info.Formats, f)
	}
	return info, nil
}

// codecPresent treats anything other than an explicit "none" as present.
func codecPresent(codec *string) bool {
	return codec == nil || *codec != "none"
}

// mimeFromExt derives a MIME type for formats yt-dlp reports without one.
func mimeFromExt(ext string, hasVideo, hasAudio bool) string {
	ext = strings.ToLower(ext)
	switch {
	case hasVideo:
		switch ext {
		case "3gp":
			return "video/3gpp"
		case "mkv":
			return "video/x-matroska"
		case "":
			return ""
		}
		return "video/" + ext
	case hasAudio:
		switch ext {
		case "m4a", "mp4":
			return "audio/mp4"
		case "mp3":
			return "audio/mpeg"
		case "":
			return ""
		}
		return "audio/" + ext
	}
	return ""
}
