package roboscan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/roboscan/roboscan/internal/git"
	"github.com/roboscan/roboscan/internal/report"
	"github.com/roboscan/roboscan/pkg/core"
)

const uploadSchemaVersion = "1"

type uploadEnvelope struct {
	Tool    string `json:"tool"`
	Version string `json:"version"`
	Schema  string `json:"schema_version"`
	git.Metadata
	Summary  report.Summary `json:"summary"`
	Findings []core.Finding `json:"findings"`
}

func uploadFindings(ctx context.Context, rootPath, url, token string, noMeta bool, findings []core.Finding) error {
	env := uploadEnvelope{
		Tool:     "roboscan",
		Version:  version,
		Schema:   uploadSchemaVersion,
		Summary:  report.Summarize(findings),
		Findings: findings,
	}
	if !noMeta {
		env.Metadata = git.RepoMetadata(rootPath)
	}
	body, err := json.Marshal(env)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	httpClient := &http.Client{Timeout: 10 * time.Second}
	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("upload status %d", resp.StatusCode)
	}
	return nil
}
