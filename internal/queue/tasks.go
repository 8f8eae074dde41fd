package queue

import (
	"encoding/json"
	"fmt"

	"github.com/skillhound/skillhound/internal/model"
)

// Queue names used by the pipeline. Both live in the same task table.
const (
	CrawlQueue = "crawl"
	ScoreQueue = "score"
)

// CrawlTask asks a worker to crawl the board for one skill.
type CrawlTask struct {
	Skill string `json:"skill"`
}

// ScoreTask asks a worker to score one posting against the skill set as
// it stood when the posting was discovered. Carrying the snapshot in
// the payload keeps scoring deterministic even if the user edits skills
// while the task waits in the queue.
type ScoreTask struct {
	PostingID string         `json:"posting_id"`
	Link      string         `json:"link"`
	Skills    model.SkillSet `json:"skills"`
}

// EncodeCrawlTask serializes a crawl task payload.
func EncodeCrawlTask(t CrawlTask) ([]byte, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to encode crawl task: %w", err)
	}
	return data, nil
}

// DecodeCrawlTask deserializes a crawl task payload.
func DecodeCrawlTask(data []byte) (CrawlTask, error) {
	var t CrawlTask
	if err := json.Unmarshal(data, &t); err != nil {
		return CrawlTask{}, fmt.Errorf("failed to decode crawl task: %w", err)
	}
	return t, nil
}

// EncodeScoreTask serializes a score task payload.
func EncodeScoreTask(t ScoreTask) ([]byte, error) {
	data, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to encode score task: %w", err)
	}
	return data, nil
}

// DecodeScoreTask deserializes a score task payload.
func DecodeScoreTask(data []byte) (ScoreTask, error) {
	var t ScoreTask
	if err := json.Unmarshal(data, &t); err != nil {
		return ScoreTask{}, fmt.Errorf("failed to decode score task: %w", err)
	}
	return t, nil
}
