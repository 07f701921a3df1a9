package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	catalogerrors "github.com/metriclens/metriclens/internal/errors"
	"github.com/metriclens/metriclens/internal/logger"
	"github.com/metriclens/metriclens/pkg/types"
)

const maxNamePrefixLen = 50

var unsafeFilenameChars = regexp.MustCompile(`[\\/:*?"<>|\s]`)

// SnapshotInfo is a lightweight descriptor for a stored snapshot file.
type SnapshotInfo struct {
	Path         string `json:"path"`
	DataViewID   string `json:"data_view_id"`
	DataViewName string `json:"data_view_name"`
	CreatedAt    string `json:"created_at"`
	FileSize     int64  `json:"file_size"`
}

// SnapshotStore persists snapshots as pretty-printed UTF-8 JSON files and
// owns the on-disk lifecycle: save, load, enumerate, retire via retention.
// It applies no internal locking; concurrent writers targeting the same path
// must be serialized by the caller.
type SnapshotStore struct {
	log logger.Logger
}

// NewSnapshotStore creates a store. A nil logger disables logging.
func NewSnapshotStore(log logger.Logger) *SnapshotStore {
	if log == nil {
		log = logger.Nop()
	}
	return &SnapshotStore{log: log}
}

// Save writes the snapshot to path, creating parent directories as needed,
// and returns the written path. Non-ASCII text is preserved, not escaped.
func (s *SnapshotStore) Save(snapshot *types.Snapshot, path string) (string, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			if os.IsPermission(err) {
				return "", catalogerrors.PermissionDenied("create directory", dir)
			}
			return "", fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	file, err := os.Create(path)
	if err != nil {
		if os.IsPermission(err) {
			return "", catalogerrors.PermissionDenied("write", path)
		}
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(snapshot.ToMap()); err != nil {
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}

	s.log.WithField("path", path).Debug("snapshot saved")
	return path, nil
}

// Load reads a snapshot from path. A missing file is a NotFound error; valid
// JSON lacking the minimal required keys (data_view_id, snapshot_version) is
// an InvalidFormat error.
func (s *SnapshotStore) Load(path string) (*types.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, catalogerrors.NotFound(path)
		}
		if os.IsPermission(err) {
			return nil, catalogerrors.PermissionDenied("read", path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, catalogerrors.InvalidFormat(path, err.Error())
	}

	for _, key := range []string{"data_view_id", "snapshot_version"} {
		v, ok := raw[key].(string)
		if !ok || v == "" {
			return nil, catalogerrors.InvalidFormat(path, "missing required key "+key)
		}
	}

	return types.SnapshotFromMap(raw), nil
}

// List enumerates all snapshot files in dir, newest first. Files that fail to
// parse are skipped; one corrupt file never aborts the whole listing. A
// missing directory yields an empty result.
func (s *SnapshotStore) List(dir string) ([]SnapshotInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		if os.IsPermission(err) {
			return nil, catalogerrors.PermissionDenied("read directory", dir)
		}
		return nil, fmt.Errorf("failed to read directory %s: %w", dir, err)
	}

	var infos []SnapshotInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		snapshot, err := s.Load(path)
		if err != nil {
			s.log.WithFields(map[string]interface{}{"path": path, "error": err.Error()}).Debug("skipping unparseable snapshot")
			continue
		}
		info := SnapshotInfo{
			Path:         path,
			DataViewID:   snapshot.DataViewID,
			DataViewName: snapshot.DataViewName,
			CreatedAt:    snapshot.CreatedAt,
		}
		if stat, err := entry.Info(); err == nil {
			info.FileSize = stat.Size()
		}
		infos = append(infos, info)
	}

	sortNewestFirst(infos)
	return infos, nil
}

// GenerateFilename builds a snapshot filename following the pattern
// {sanitized_name_}{id}_{YYYYMMDD}_{HHMMSS}.json. With no name, the name
// prefix is omitted entirely.
func (s *SnapshotStore) GenerateFilename(id, name string) string {
	timestamp := time.Now().Format("20060102_150405")
	if name == "" {
		return fmt.Sprintf("%s_%s.json", id, timestamp)
	}
	return fmt.Sprintf("%s_%s_%s.json", sanitizeFilename(name), id, timestamp)
}

// ApplyRetention keeps the keepLast newest snapshots for the given data view
// id in dir and deletes the rest, returning the deleted paths. keepLast <= 0
// deletes nothing. Snapshots for other data views are never touched; a
// missing or empty directory is "nothing to retain". A failed delete leaves
// the file intact and is surfaced as an error alongside the paths already
// deleted.
func (s *SnapshotStore) ApplyRetention(dir, id string, keepLast int) ([]string, error) {
	if keepLast <= 0 {
		return nil, nil
	}

	infos, err := s.List(dir)
	if err != nil {
		return nil, err
	}

	var matching []SnapshotInfo
	for _, info := range infos {
		if info.DataViewID == id {
			matching = append(matching, info)
		}
	}
	if len(matching) <= keepLast {
		return nil, nil
	}

	var deleted []string
	for _, info := range matching[keepLast:] {
		if err := os.Remove(info.Path); err != nil {
			if os.IsPermission(err) {
				return deleted, catalogerrors.PermissionDenied("delete", info.Path)
			}
			return deleted, fmt.Errorf("failed to delete %s: %w", info.Path, err)
		}
		s.log.WithField("path", info.Path).Debug("retired snapshot")
		deleted = append(deleted, info.Path)
	}
	return deleted, nil
}

// MostRecent returns the path of the newest snapshot for the given data view
// id, or a NotFound error when none exists or the directory is missing.
func (s *SnapshotStore) MostRecent(dir, id string) (string, error) {
	infos, err := s.List(dir)
	if err != nil {
		return "", err
	}
	for _, info := range infos {
		if info.DataViewID == id {
			return info.Path, nil
		}
	}
	return "", catalogerrors.NotFound("snapshot for data view " + id)
}

// sortNewestFirst orders descriptors by created_at descending. Unparseable
// timestamps sort oldest; ties break on path for determinism.
func sortNewestFirst(infos []SnapshotInfo) {
	sort.SliceStable(infos, func(i, j int) bool {
		ti := parseCreatedAt(infos[i].CreatedAt)
		tj := parseCreatedAt(infos[j].CreatedAt)
		if !ti.Equal(tj) {
			return ti.After(tj)
		}
		return infos[i].Path < infos[j].Path
	})
}

func parseCreatedAt(value string) time.Time {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t
		}
	}
	return time.Time{}
}

// sanitizeFilename replaces filesystem-unsafe characters and whitespace with
// underscores and truncates the result to a manageable prefix length.
func sanitizeFilename(name string) string {
	result := unsafeFilenameChars.ReplaceAllString(name, "_")
	if runes := []rune(result); len(runes) > maxNamePrefixLen {
		result = string(runes[:maxNamePrefixLen])
	}
	return result
}
