package health

import (
	"context"
	"weighbridge/middleware"

	json "github.com/json-iterator/go"
)

// SessionCounter reports open list sessions
type SessionCounter interface {
	Len() int
}

type Service struct {
	repo     *Repository
	sessions SessionCounter
}

func NewService(repo *Repository, sessions SessionCounter) *Service {
	return &Service{
		repo:     repo,
		sessions: sessions,
	}
}

// Report is the health summary
type Report struct {
	Database string `json:"database"`
	Driver   string `json:"driver"`
	Sessions int    `json:"sessions"`
}

// CheckHealth pings the database. The report is filled in even when the ping
// fails; the error tells the caller to answer 503.
func (s *Service) CheckHealth(ctx context.Context) (Report, error) {
	report := Report{
		Database: "ok",
		Driver:   s.repo.Driver(),
	}
	if s.sessions != nil {
		report.Sessions = s.sessions.Len()
	}

	if err := s.repo.Ping(ctx); err != nil {
		report.Database = "error"
		return report, err
	}
	return report, nil
}

func (s *Service) CheckHealthStream(ctx context.Context) <-chan middleware.StreamChunk {
	chunkChan := make(chan middleware.StreamChunk, 1)
	go func() {
		defer close(chunkChan)

		report, err := s.CheckHealth(ctx)
		if err != nil {
			chunkChan <- middleware.StreamChunk{Error: err}
			return
		}

		jsonData, err := json.Marshal(report)
		if err != nil {
			chunkChan <- middleware.StreamChunk{Error: err}
			return
		}
		chunkChan <- middleware.StreamChunk{JSONBuf: &jsonData}
	}()
	return chunkChan
}
