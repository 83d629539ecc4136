package assets

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"reelforge/internal/config"
)

// DialogueClip is one spoken-line audio asset within a scene.
type DialogueClip struct {
	Path      string `json:"path"`
	Character string `json:"character"`
	Text      string `json:"text"`
	Order     int    `json:"order"`
}

// sceneAudio mirrors one entry of audio_paths.json.
type sceneAudio struct {
	SceneID    int            `json:"scene_id"`
	AudioFiles []DialogueClip `json:"audio_files"`
}

// Scene is one segment of the final reel: a video clip plus its ordered
// dialogue clips. IDs are 1-based and contiguous with the video list order.
type Scene struct {
	ID        int
	VideoPath string
	Dialogues []DialogueClip
}

var sceneFilePattern = regexp.MustCompile(`^scene_(\d+)\.mp4$`)

// Load reads the video and audio manifests and assembles the scene list.
func Load(cfg *config.Config) ([]Scene, error) {
	videoPaths, err := loadVideoPaths(cfg)
	if err != nil {
		return nil, err
	}

	audioByScene, err := loadAudioManifest(cfg.AudioManifestPath())
	if err != nil {
		return nil, err
	}

	scenes := make([]Scene, 0, len(videoPaths))
	for idx, videoPath := range videoPaths {
		sceneID := idx + 1
		dialogues := append([]DialogueClip(nil), audioByScene[sceneID]...)
		sort.SliceStable(dialogues, func(i, j int) bool {
			return dialogues[i].Order < dialogues[j].Order
		})
		scenes = append(scenes, Scene{
			ID:        sceneID,
			VideoPath: videoPath,
			Dialogues: dialogues,
		})
	}
	return scenes, nil
}

func loadVideoPaths(cfg *config.Config) ([]string, error) {
	manifestPath := cfg.VideoManifestPath()
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return scanVideosDir(cfg.Paths.VideosDir)
		}
		return nil, fmt.Errorf("read video manifest: %w", err)
	}

	var paths []string
	if err := json.Unmarshal(data, &paths); err != nil {
		return nil, fmt.Errorf("parse video manifest %s: %w", manifestPath, err)
	}
	return paths, nil
}

// scanVideosDir finds scene_<n>.mp4 files and orders them by scene number, so
// scene_10 sorts after scene_2.
func scanVideosDir(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan videos dir: %w", err)
	}

	type numbered struct {
		n    int
		path string
	}
	var found []numbered
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		match := sceneFilePattern.FindStringSubmatch(entry.Name())
		if match == nil {
			continue
		}
		n, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		found = append(found, numbered{n: n, path: filepath.Join(dir, entry.Name())})
	}
	sort.Slice(found, func(i, j int) bool { return found[i].n < found[j].n })

	paths := make([]string, 0, len(found))
	for _, item := range found {
		paths = append(paths, item.path)
	}
	return paths, nil
}

func loadAudioManifest(path string) (map[int][]DialogueClip, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[int][]DialogueClip{}, nil
		}
		return nil, fmt.Errorf("read audio manifest: %w", err)
	}

	var entries []sceneAudio
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse audio manifest %s: %w", path, err)
	}

	byScene := make(map[int][]DialogueClip, len(entries))
	for _, entry := range entries {
		byScene[entry.SceneID] = append(byScene[entry.SceneID], entry.AudioFiles...)
	}
	return byScene, nil
}
