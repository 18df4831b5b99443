package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	compdto "srivani_backend/internals/features/competitions/dto"
	compmodel "srivani_backend/internals/features/competitions/model"
	"srivani_backend/internals/features/quiz/dto"
	"srivani_backend/internals/features/quiz/model"
)

// Listing policies. Both reproduce long-standing product behavior and are
// kept as explicit switches rather than query accidents:
//   - OngoingExcludesTimed: in-progress attempts on timed competitions do
//     not appear in the "ongoing" list (the countdown screen owns them).
//   - UpcomingFiltersAttempted: the upcoming list does NOT hide
//     competitions the user has already attempted, unlike the active list.
const (
	OngoingExcludesTimed     = true
	UpcomingFiltersAttempted = false
)

// =============================
// GetActiveCompetitions
// =============================
// Published competitions currently inside their window that the user has
// not attempted in any status.
func (s *QuizService) GetActiveCompetitions(ctx context.Context, userID uuid.UUID) ([]compdto.CompetitionResponse, error) {
	now := time.Now()

	attempted := s.DB.Model(&model.QuizAttemptModel{}).
		Select("quiz_attempt_competition_id").
		Where("quiz_attempt_user_id = ?", userID)

	var rows []compmodel.CompetitionModel
	err := s.DB.WithContext(ctx).
		Where("competition_status = ? AND competition_is_deleted = ?", compmodel.CompetitionStatusPublished, false).
		Where("competition_start_date <= ? AND competition_end_date >= ?", now, now).
		Where("competition_id NOT IN (?)", attempted).
		Order("competition_end_date asc").
		Find(&rows).Error
	if err != nil {
		return nil, wrapDBError(err)
	}
	return compdto.ToCompetitionResponseList(rows, now), nil
}

// =============================
// GetUpcomingCompetitions
// =============================
func (s *QuizService) GetUpcomingCompetitions(ctx context.Context, userID uuid.UUID) ([]compdto.CompetitionResponse, error) {
	now := time.Now()

	q := s.DB.WithContext(ctx).
		Where("competition_status IN ? AND competition_is_deleted = ?",
			[]string{compmodel.CompetitionStatusDraft, compmodel.CompetitionStatusPublished}, false).
		Where("competition_start_date > ?", now)

	if UpcomingFiltersAttempted {
		attempted := s.DB.Model(&model.QuizAttemptModel{}).
			Select("quiz_attempt_competition_id").
			Where("quiz_attempt_user_id = ?", userID)
		q = q.Where("competition_id NOT IN (?)", attempted)
	}

	var rows []compmodel.CompetitionModel
	if err := q.Order("competition_start_date asc").Find(&rows).Error; err != nil {
		return nil, wrapDBError(err)
	}
	return compdto.ToCompetitionResponseList(rows, now), nil
}

// =============================
// GetOngoingAttempts
// =============================
func (s *QuizService) GetOngoingAttempts(ctx context.Context, userID uuid.UUID) ([]dto.AttemptResponse, error) {
	var attempts []model.QuizAttemptModel
	if err := s.DB.WithContext(ctx).
		Where("quiz_attempt_user_id = ? AND quiz_attempt_status = ?", userID, model.QuizAttemptStatusInProgress).
		Order("quiz_attempt_start_time desc").
		Find(&attempts).Error; err != nil {
		return nil, wrapDBError(err)
	}

	comps, err := s.competitionsByID(ctx, attempts)
	if err != nil {
		return nil, err
	}

	out := make([]dto.AttemptResponse, 0, len(attempts))
	for i := range attempts {
		comp, ok := comps[attempts[i].QuizAttemptCompetitionID]
		if !ok {
			continue
		}
		if OngoingExcludesTimed && comp.CompetitionTimeLimitMinutes != nil {
			continue
		}
		out = append(out, *toAttemptResponse(&attempts[i], comp))
	}
	return out, nil
}

// =============================
// GetCompletedAttempts
// =============================
func (s *QuizService) GetCompletedAttempts(ctx context.Context, userID uuid.UUID) ([]dto.CompletedAttemptResponse, error) {
	var attempts []model.QuizAttemptModel
	if err := s.DB.WithContext(ctx).
		Where("quiz_attempt_user_id = ? AND quiz_attempt_status = ?", userID, model.QuizAttemptStatusCompleted).
		Order("quiz_attempt_end_time desc").
		Find(&attempts).Error; err != nil {
		return nil, wrapDBError(err)
	}

	comps, err := s.competitionsByID(ctx, attempts)
	if err != nil {
		return nil, err
	}

	out := make([]dto.CompletedAttemptResponse, 0, len(attempts))
	for i := range attempts {
		a := &attempts[i]
		comp, ok := comps[a.QuizAttemptCompetitionID]
		if !ok {
			continue
		}
		out = append(out, dto.CompletedAttemptResponse{
			AttemptID:          a.QuizAttemptID,
			CompetitionID:      a.QuizAttemptCompetitionID,
			CompetitionTitleEn: comp.CompetitionTitleEn,
			CompetitionTitleHi: comp.CompetitionTitleHi,
			EndTime:            a.QuizAttemptEndTime,
			TotalQuestions:     a.QuizAttemptTotalQuestions,
			CorrectAnswers:     a.QuizAttemptCorrectAnswers,
			ScorePercent:       a.QuizAttemptScorePercent,
			ResultDeclared:     comp.CompetitionResultDeclared,
		})
	}
	return out, nil
}

func (s *QuizService) competitionsByID(ctx context.Context, attempts []model.QuizAttemptModel) (map[uuid.UUID]*compmodel.CompetitionModel, error) {
	ids := make([]uuid.UUID, 0, len(attempts))
	for i := range attempts {
		ids = append(ids, attempts[i].QuizAttemptCompetitionID)
	}
	byID := make(map[uuid.UUID]*compmodel.CompetitionModel, len(ids))
	if len(ids) == 0 {
		return byID, nil
	}

	var comps []compmodel.CompetitionModel
	if err := s.DB.WithContext(ctx).
		Where("competition_id IN ?", ids).
		Find(&comps).Error; err != nil {
		return nil, wrapDBError(err)
	}
	for i := range comps {
		byID[comps[i].CompetitionID] = &comps[i]
	}
	return byID, nil
}

// =============================
// GetUserDashboardStats
// =============================
func (s *QuizService) GetUserDashboardStats(ctx context.Context, userID uuid.UUID) (*dto.DashboardStatsResponse, error) {
	stats := dto.DashboardStatsResponse{}

	if err := s.DB.WithContext(ctx).Model(&compmodel.CompetitionModel{}).
		Where("competition_status = ? AND competition_is_deleted = ?", compmodel.CompetitionStatusPublished, false).
		Count(&stats.TotalCompetitions).Error; err != nil {
		return nil, wrapDBError(err)
	}

	if err := s.DB.WithContext(ctx).Model(&model.QuizAttemptModel{}).
		Where("quiz_attempt_user_id = ? AND quiz_attempt_status = ?", userID, model.QuizAttemptStatusCompleted).
		Count(&stats.CompletedAttempts).Error; err != nil {
		return nil, wrapDBError(err)
	}

	if stats.CompletedAttempts > 0 {
		var avg float64
		if err := s.DB.WithContext(ctx).Model(&model.QuizAttemptModel{}).
			Where("quiz_attempt_user_id = ? AND quiz_attempt_status = ?", userID, model.QuizAttemptStatusCompleted).
			Select("AVG(quiz_attempt_score_percent)").
			Scan(&avg).Error; err != nil {
			return nil, wrapDBError(err)
		}
		stats.AverageScore = &avg

		// Best rank across competitions: rank this user's score against
		// every completed attempt of the same competition.
		var best sql.NullInt64
		err := s.DB.WithContext(ctx).Raw(`
			SELECT MIN(rnk) FROM (
				SELECT quiz_attempt_user_id AS uid,
				       RANK() OVER (
				           PARTITION BY quiz_attempt_competition_id
				           ORDER BY quiz_attempt_score_percent DESC
				       ) AS rnk
				FROM quiz_attempts
				WHERE quiz_attempt_status = ?
			) ranked
			WHERE uid = ?`,
			model.QuizAttemptStatusCompleted, userID).
			Scan(&best).Error
		if err != nil {
			return nil, wrapDBError(err)
		}
		if best.Valid {
			rank := int(best.Int64)
			stats.BestRank = &rank
		}
	}

	return &stats, nil
}
