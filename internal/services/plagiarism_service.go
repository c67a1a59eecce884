// internal/services/plagiarism_service.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/tunetrust/tunetrust-backend/internal/config"
)

// PlagiarismService fronts the external audio-similarity detector. An
// upload is compared pairwise against existing catalog tracks; any score
// above the configured threshold blocks the upload.
type PlagiarismService struct {
	config *config.Config
	client *http.Client
}

type SimilarityResult struct {
	CosineSimilarity     float64 `json:"cosine_similarity"`
	EuclideanSimilarity  float64 `json:"euclidean_similarity"`
	SimilarityPercentage float64 `json:"similarity_percentage"`
	IsPlagiarized        bool    `json:"is_plagiarized"`
}

func NewPlagiarismService(cfg *config.Config) *PlagiarismService {
	return &PlagiarismService{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.Plagiarism.TimeoutSec) * time.Second,
		},
	}
}

// Compare submits two audio payloads to the detector and returns its verdict.
func (s *PlagiarismService) Compare(ctx context.Context, candidate, existing []byte) (*SimilarityResult, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part1, err := writer.CreateFormFile("file1", "candidate.wav")
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part1.Write(candidate); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}

	part2, err := writer.CreateFormFile("file2", "existing.wav")
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part2.Write(existing); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}

	url := s.config.Plagiarism.ServiceURL + "/detect_plagiarism"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("plagiarism service unreachable: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("plagiarism service returned %d: %s", resp.StatusCode, string(respBody))
	}

	var result SimilarityResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &result, nil
}

// CheckAgainstCatalog compares the candidate against each existing track
// and returns the highest-scoring match. A fetch failure for a single
// track is logged and skipped rather than failing the whole upload.
func (s *PlagiarismService) CheckAgainstCatalog(ctx context.Context, candidate []byte, fetchTrack func(key string) ([]byte, error), trackKeys []string) (*SimilarityResult, error) {
	var worst *SimilarityResult

	for _, key := range trackKeys {
		existing, err := fetchTrack(key)
		if err != nil {
			logrus.WithError(err).WithField("key", key).Warn("Skipping catalog track during plagiarism check")
			continue
		}

		result, err := s.Compare(ctx, candidate, existing)
		if err != nil {
			return nil, err
		}

		if worst == nil || result.SimilarityPercentage > worst.SimilarityPercentage {
			worst = result
		}

		if result.SimilarityPercentage > s.config.Plagiarism.Threshold {
			return result, nil
		}
	}

	if worst == nil {
		worst = &SimilarityResult{}
	}
	return worst, nil
}

// Exceeds reports whether a score is above the configured block threshold.
func (s *PlagiarismService) Exceeds(result *SimilarityResult) bool {
	return result.SimilarityPercentage > s.config.Plagiarism.Threshold
}
