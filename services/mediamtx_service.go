package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"facility-monitoring/be/config"
)

// MediaMTXService provisions stream paths on an external MediaMTX
// instance. MediaMTX pulls RTSP from the camera and serves HLS; this
// service only talks to its config API and never touches media bytes.
type MediaMTXService struct {
	config      config.MediaMTXConfig
	httpClient  *http.Client
	activePaths map[uint]string // camera_id -> path_name
	mu          sync.RWMutex
}

func NewMediaMTXService(cfg config.MediaMTXConfig) *MediaMTXService {
	return &MediaMTXService{
		config:      cfg,
		httpClient:  &http.Client{Timeout: 10 * time.Second},
		activePaths: make(map[uint]string),
	}
}

// PathName returns the MediaMTX path name for a camera. Camera codes
// are unique; lowercased they make stable, readable path names.
func (s *MediaMTXService) PathName(cameraID uint, code string) string {
	if code == "" {
		return fmt.Sprintf("cam%d", cameraID)
	}
	return strings.ToLower(strings.ReplaceAll(code, " ", "-"))
}

// StartStream configures a MediaMTX source path for a camera and
// returns the public HLS URL. Idempotent per camera.
func (s *MediaMTXService) StartStream(cameraID uint, code, rtspURL string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if pathName, exists := s.activePaths[cameraID]; exists {
		return s.hlsURL(pathName), nil
	}

	pathName := s.PathName(cameraID, code)

	pathConfig := map[string]interface{}{
		"source":                     rtspURL,
		"sourceOnDemand":             true,
		"sourceOnDemandStartTimeout": "10s",
		"sourceOnDemandCloseAfter":   "10s",
		"sourceProtocol":             "tcp",
		"sourceAnyPortEnable":        false,
	}

	patchConfig := map[string]interface{}{
		"paths": map[string]interface{}{
			pathName: pathConfig,
		},
	}

	if err := s.patchConfig(patchConfig); err != nil {
		return "", err
	}

	s.activePaths[cameraID] = pathName

	hlsURL := s.hlsURL(pathName)
	fmt.Printf("[MediaMTX] Path configured for camera %d: %s (RTSP: %s) -> HLS: %s\n", cameraID, pathName, rtspURL, hlsURL)
	return hlsURL, nil
}

// StopStream removes the MediaMTX path for a camera.
func (s *MediaMTXService) StopStream(cameraID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	pathName, exists := s.activePaths[cameraID]
	if !exists {
		return fmt.Errorf("stream not found for camera %d", cameraID)
	}

	// Patching a path to null removes it
	patchConfig := map[string]interface{}{
		"paths": map[string]interface{}{
			pathName: nil,
		},
	}

	if err := s.patchConfig(patchConfig); err != nil {
		return err
	}

	delete(s.activePaths, cameraID)
	fmt.Printf("[MediaMTX] Path removed for camera %d: %s\n", cameraID, pathName)
	return nil
}

// StreamHealth checks whether the camera's path is active on MediaMTX.
func (s *MediaMTXService) StreamHealth(cameraID uint) (bool, error) {
	s.mu.RLock()
	pathName, exists := s.activePaths[cameraID]
	s.mu.RUnlock()

	if !exists {
		return false, fmt.Errorf("stream not found for camera %d", cameraID)
	}

	statusURL := fmt.Sprintf("http://%s:%s/v2/paths/list", s.config.Host, s.config.APIPort)

	resp, err := s.httpClient.Get(statusURL)
	if err != nil {
		return false, fmt.Errorf("failed to check MediaMTX path status: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("MediaMTX API error (status %d)", resp.StatusCode)
	}

	var pathsResponse map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&pathsResponse); err != nil {
		return false, fmt.Errorf("failed to decode MediaMTX response: %w", err)
	}

	if paths, ok := pathsResponse["items"].(map[string]interface{}); ok {
		if _, exists := paths[pathName]; exists {
			return true, nil
		}
	}

	return false, nil
}

func (s *MediaMTXService) patchConfig(patch map[string]interface{}) error {
	configJSON, err := json.Marshal(patch)
	if err != nil {
		return fmt.Errorf("failed to marshal path config: %w", err)
	}

	configURL := fmt.Sprintf("http://%s:%s/v2/config/patch", s.config.Host, s.config.APIPort)

	req, err := http.NewRequest("POST", configURL, bytes.NewBuffer(configJSON))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to configure MediaMTX path: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("MediaMTX API error (status %d): %s", resp.StatusCode, string(body))
	}

	return nil
}

func (s *MediaMTXService) hlsURL(pathName string) string {
	return fmt.Sprintf("http://%s:%s/%s/index.m3u8", s.config.PublicHost, s.config.HTTPPort, pathName)
}
