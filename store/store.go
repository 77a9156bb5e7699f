// Package store persists scraped tracklists and built playlists as JSON
// under a per-show data directory, so repeat runs can retry failed
// searches without rescraping.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

const (
	tapesFile    = "tracklists_with_spotify.json"
	playlistFile = "playlist_uris.json"
)

// TrackRecord is one tracklist entry with its Spotify search outcome.
type TrackRecord struct {
	Artist        string  `json:"artist"`
	Title         string  `json:"title"`
	URI           string  `json:"uri,omitempty"`
	Found         bool    `json:"found"`
	MatchedArtist string  `json:"matched_artist,omitempty"`
	MatchedTitle  string  `json:"matched_title,omitempty"`
	// distance and auto_confirmed always serialize: a 0.0 distance is a
	// perfect match, not an absent value.
	Distance      float64 `json:"distance"`
	AutoConfirmed bool    `json:"auto_confirmed"`
}

// Tape is one scraped episode with its matched tracklist.
type Tape struct {
	Alias      string        `json:"alias"`
	Name       string        `json:"name"`
	Broadcast  string        `json:"broadcast"`
	URL        string        `json:"url"`
	Mixcloud   string        `json:"mixcloud,omitempty"`
	AudioURLs  []string      `json:"audio_urls,omitempty"`
	TrackCount int           `json:"track_count"`
	Tracks     []TrackRecord `json:"tracks"`
}

// Playlist is the set of URIs that make up a show's playlist, plus the
// Spotify playlist created from it, if any.
type Playlist struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	URIs        []string `json:"uris"`
	PlaylistID  string   `json:"playlist_id,omitempty"`
	PlaylistURL string   `json:"playlist_url,omitempty"`
}

// Store reads and writes a show's data files.
type Store struct {
	dir string
}

// New creates a store rooted at dataDir/<show>.
func New(dataDir, show string) *Store {
	return &Store{dir: filepath.Join(dataDir, show)}
}

// Dir returns the show's data directory.
func (s *Store) Dir() string {
	return s.dir
}

// SaveTapes writes the scraped tapes to disk, creating the show
// directory if needed.
func (s *Store) SaveTapes(tapes []Tape) error {
	return s.writeJSON(tapesFile, tapes)
}

// LoadTapes reads the scraped tapes back. A missing file is an error;
// callers use HasTapes to offer the menu options that need prior data.
func (s *Store) LoadTapes() ([]Tape, error) {
	var tapes []Tape
	if err := s.readJSON(tapesFile, &tapes); err != nil {
		return nil, err
	}
	return tapes, nil
}

// HasTapes reports whether a scrape has been saved for this show.
func (s *Store) HasTapes() bool {
	_, err := os.Stat(filepath.Join(s.dir, tapesFile))
	return err == nil
}

// SavePlaylist writes the playlist URI set to disk.
func (s *Store) SavePlaylist(playlist *Playlist) error {
	return s.writeJSON(playlistFile, playlist)
}

// LoadPlaylist reads the playlist URI set back.
func (s *Store) LoadPlaylist() (*Playlist, error) {
	var playlist Playlist
	if err := s.readJSON(playlistFile, &playlist); err != nil {
		return nil, err
	}
	return &playlist, nil
}

// HasPlaylist reports whether a playlist file exists for this show.
func (s *Store) HasPlaylist() bool {
	_, err := os.Stat(filepath.Join(s.dir, playlistFile))
	return err == nil
}

func (s *Store) writeJSON(name string, v interface{}) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func (s *Store) readJSON(name string, v interface{}) error {
	path := filepath.Join(s.dir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return nil
}
