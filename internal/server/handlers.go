package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/skillhound/skillhound/internal/model"
	"github.com/skillhound/skillhound/internal/queue"
)

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAddSkill upserts a skill and reanalyzes its column. Wanted
// skills additionally get a crawl scheduled; unwanted ones only change
// how existing postings rank.
func (s *Server) handleAddSkill(wanted bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")
		if name == "" {
			s.respondError(w, http.StatusBadRequest, "skill name is required")
			return
		}

		scheduled, err := s.registerSkill(r, name, wanted)
		if err != nil {
			s.logger.Error("failed to register skill", "skill", name, "error", err)
			s.respondError(w, http.StatusInternalServerError, "failed to register skill")
			return
		}

		s.respond(w, http.StatusOK, map[string]any{
			"skill":           name,
			"wanted":          wanted,
			"crawl_scheduled": scheduled,
		})
	}
}

// registerSkill runs the shared add-skill flow: upsert, synchronous
// reanalysis, and for wanted skills a crawl task. The reanalysis must
// finish before the crawl is published so that a scoring task never
// observes postings missing the new column.
func (s *Server) registerSkill(r *http.Request, name string, wanted bool) (bool, error) {
	ctx := r.Context()

	if err := s.db.PutSkill(ctx, name, wanted); err != nil {
		return false, err
	}
	if err := s.reanalyzer.Reanalyze(ctx, name); err != nil {
		return false, err
	}
	if !wanted {
		return false, nil
	}

	payload, err := queue.EncodeCrawlTask(queue.CrawlTask{Skill: name})
	if err != nil {
		return false, err
	}
	if _, err := s.crawls.Publish(ctx, payload); err != nil {
		return false, err
	}
	return true, nil
}

// handleDeleteSkill removes a skill and cascades its analysis column.
// The cascade is best effort: a leftover column is ignored by every
// ranking, so a partial delete is harmless.
func (s *Server) handleDeleteSkill(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	ctx := r.Context()

	if err := s.db.DeleteSkill(ctx, name); err != nil {
		s.logger.Error("failed to delete skill", "skill", name, "error", err)
		s.respondError(w, http.StatusInternalServerError, "failed to delete skill")
		return
	}
	if err := s.db.DeleteAnalysisColumn(ctx, name); err != nil {
		s.logger.Warn("failed to cascade analysis column", "skill", name, "error", err)
	}

	s.respond(w, http.StatusOK, map[string]string{"deleted": name})
}

func (s *Server) handleListSkills(w http.ResponseWriter, r *http.Request) {
	skills, err := s.db.ScanSkills(r.Context())
	if err != nil {
		s.logger.Error("failed to list skills", "error", err)
		s.respondError(w, http.StatusInternalServerError, "failed to list skills")
		return
	}
	if skills == nil {
		skills = model.SkillSet{}
	}
	s.respond(w, http.StatusOK, skills)
}

// handleSearch captures the user's search: the q parameter is the
// skill, everything else becomes the new singleton constraint. Paging
// parameters are stripped so a captured "start" offset cannot skew
// later crawls.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	params := r.URL.Query()
	skill := params.Get("q")
	if skill == "" {
		s.respondError(w, http.StatusBadRequest, "q parameter is required")
		return
	}
	params.Del("q")
	params.Del("start")

	ctx := r.Context()
	if err := s.db.PutConstraint(ctx, model.ConstraintFromValues(params)); err != nil {
		s.logger.Error("failed to store constraint", "error", err)
		s.respondError(w, http.StatusInternalServerError, "failed to store constraint")
		return
	}

	scheduled, err := s.registerSkill(r, skill, true)
	if err != nil {
		s.logger.Error("failed to register skill", "skill", skill, "error", err)
		s.respondError(w, http.StatusInternalServerError, "failed to register skill")
		return
	}

	s.respond(w, http.StatusOK, map[string]any{
		"skill":           skill,
		"constraint":      params.Encode(),
		"crawl_scheduled": scheduled,
	})
}

// topJob is one entry in the top-jobs response.
type topJob struct {
	PostingID string            `json:"posting_id"`
	Score     int               `json:"score"`
	Link      string            `json:"link,omitempty"`
	Fields    map[string]string `json:"fields,omitempty"`
	Hits      map[string]int    `json:"hits,omitempty"`
}

func (s *Server) handleTopJobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	top, postings, err := s.ranker.Top(ctx)
	if err != nil {
		s.logger.Error("failed to rank jobs", "error", err)
		s.respondError(w, http.StatusInternalServerError, "failed to rank jobs")
		return
	}

	jobs := make([]topJob, 0, len(top))
	for _, rp := range top {
		j := topJob{PostingID: rp.PostingID, Score: rp.Score}
		if p := postings[rp.PostingID]; p != nil {
			j.Link = p.Link
			j.Fields = p.Fields
		}
		if row, err := s.db.GetAnalysisRow(ctx, rp.PostingID); err == nil && row != nil {
			j.Hits = row.Hits
		}
		jobs = append(jobs, j)
	}

	s.respond(w, http.StatusOK, jobs)
}

func (s *Server) handleTopSkills(wanted bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scores, err := s.ranker.Skills(r.Context(), wanted)
		if err != nil {
			s.logger.Error("failed to rank skills", "error", err)
			s.respondError(w, http.StatusInternalServerError, "failed to rank skills")
			return
		}
		if scores == nil {
			scores = []model.SkillScore{}
		}
		s.respond(w, http.StatusOK, scores)
	}
}

func (s *Server) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respond(w, status, map[string]string{"error": msg})
}
