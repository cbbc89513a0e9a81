package dvk

import (
	"bytes"
	"fmt"
	"os"

	json "github.com/goccy/go-json"
	"github.com/natefinch/atomic"
)

// Extension is the file extension of DVK files.
const Extension = ".dvk"

const fileType = "dvk"

type wireRecord struct {
	FileType string   `json:"file_type"`
	ID       string   `json:"id"`
	Info     wireInfo `json:"info"`
	File     wireFile `json:"file"`
}

type wireInfo struct {
	Title          string    `json:"title"`
	Artists        []string  `json:"artists"`
	Time           string    `json:"time"`
	WebTags        []string  `json:"web_tags,omitempty"`
	Description    string    `json:"description,omitempty"`
	PageURL        string    `json:"page_url"`
	DirectURL      string    `json:"direct_url,omitempty"`
	SecondaryURL   string    `json:"secondary_url,omitempty"`
	PreviousIDs    *[]string `json:"prev_ids,omitempty"`
	NextIDs        *[]string `json:"next_ids,omitempty"`
	First          bool      `json:"first,omitempty"`
	Last           bool      `json:"last,omitempty"`
	SequenceTitle  string    `json:"seq_title,omitempty"`
	SectionTitle   string    `json:"section_title,omitempty"`
	BranchTitles   []string  `json:"branch_titles,omitempty"`
	SequenceNumber int       `json:"seq_num,omitempty"`
	SequenceTotal  int       `json:"seq_total,omitempty"`
	Rating         int       `json:"rating,omitempty"`
	Views          int       `json:"views,omitempty"`
	UserTags       []string  `json:"user_tags,omitempty"`
}

type wireFile struct {
	MediaFile     string `json:"media_file"`
	SecondaryFile string `json:"secondary_file,omitempty"`
}

// Load reads the DVK file at path. When the file is unreadable or malformed
// the returned record is a default record carrying only the path, alongside
// the error.
func Load(path string) (*Record, error) {
	r := NewAt(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return r, fmt.Errorf("read dvk: %w", err)
	}
	if err := r.UnmarshalJSON(data); err != nil {
		return r, fmt.Errorf("load %s: %w", path, err)
	}
	return r, nil
}

// Write stores the record at its path, replacing any previous file
// atomically.
func (r *Record) Write() error {
	if !r.CanWrite() {
		return fmt.Errorf("%w: %q", ErrIncomplete, r.path)
	}
	data, err := json.MarshalIndent(r, "", "    ")
	if err != nil {
		return fmt.Errorf("encode dvk: %w", err)
	}
	if err := atomic.WriteFile(r.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write dvk: %w", err)
	}
	return nil
}

// MarshalJSON encodes the record in the DVK file format.
func (r *Record) MarshalJSON() ([]byte, error) {
	wire := wireRecord{
		FileType: fileType,
		ID:       string(r.id),
		Info: wireInfo{
			Title:          r.title,
			Artists:        r.artists,
			Time:           r.Time(),
			WebTags:        r.webTags,
			Description:    r.description,
			PageURL:        r.pageURL,
			DirectURL:      r.directURL,
			SecondaryURL:   r.secondaryURL,
			PreviousIDs:    linkPointer(r.previousIDs),
			NextIDs:        linkPointer(r.nextIDs),
			First:          r.sectionFirst,
			Last:           r.sectionLast,
			SequenceTitle:  r.sequenceTitle,
			SectionTitle:   r.sectionTitle,
			BranchTitles:   r.branchTitles,
			SequenceNumber: r.sequenceNumber,
			SequenceTotal:  r.sequenceTotal,
			Rating:         r.rating,
			Views:          r.views,
			UserTags:       r.userTags,
		},
		File: wireFile{
			MediaFile:     r.mediaName,
			SecondaryFile: r.secondaryName,
		},
	}
	if wire.Info.Artists == nil {
		wire.Info.Artists = []string{}
	}
	return json.Marshal(wire)
}

// UnmarshalJSON decodes a DVK document. On failure the record is reset to
// defaults, keeping only its path.
func (r *Record) UnmarshalJSON(data []byte) error {
	path := r.path
	*r = Record{path: path}

	var wire wireRecord
	if err := json.Unmarshal(data, &wire); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if wire.FileType != fileType {
		return fmt.Errorf("%w: file_type %q", ErrMalformed, wire.FileType)
	}

	info := wire.Info
	r.SetID(wire.ID)
	r.SetTitle(info.Title)
	r.SetArtists(info.Artists)
	r.SetTime(info.Time)
	r.SetWebTags(info.WebTags)
	r.SetUserTags(info.UserTags)
	// Stored descriptions are already escaped.
	r.description = info.Description
	r.SetPageURL(info.PageURL)
	r.SetDirectURL(info.DirectURL)
	r.SetSecondaryURL(info.SecondaryURL)
	if info.PreviousIDs != nil {
		r.SetPreviousIDs(*info.PreviousIDs)
	}
	if info.NextIDs != nil {
		r.SetNextIDs(*info.NextIDs)
	}
	r.SetSectionFirst(info.First)
	r.SetSectionLast(info.Last)
	r.SetSequenceTitle(info.SequenceTitle)
	r.SetSectionTitle(info.SectionTitle)
	r.SetBranchTitles(info.BranchTitles)
	r.SetSequencePosition(info.SequenceNumber, info.SequenceTotal)
	r.SetRating(info.Rating)
	r.SetViews(info.Views)
	r.SetMediaFile(wire.File.MediaFile)
	r.SetSecondaryFile(wire.File.SecondaryFile)
	return nil
}

func linkPointer(ids []Identity) *[]string {
	if ids == nil {
		return nil
	}
	values := identitiesToStrings(ids)
	return &values
}
