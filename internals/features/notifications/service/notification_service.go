package service

import (
	"context"
	"fmt"
	"log"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	compmodel "srivani_backend/internals/features/competitions/model"
	"srivani_backend/internals/features/notifications/model"
	usermodel "srivani_backend/internals/features/users/user/model"
)

type NotificationService struct {
	DB       *gorm.DB
	WhatsApp *WhatsAppClient
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{
		DB:       db,
		WhatsApp: NewWhatsAppClient(),
	}
}

// NotifyCompetitionPublished records the announcement and fans it out to
// every active user with a phone number. Called in the background after a
// publish commits, so failures here never surface to the admin request.
func (s *NotificationService) NotifyCompetitionPublished(ctx context.Context, comp *compmodel.CompetitionModel) {
	tags := datatypes.JSON([]byte(`["competition","publish"]`))

	row := model.NotificationModel{
		NotificationTitleEn:       "New competition: " + comp.CompetitionTitleEn,
		NotificationTitleHi:       comp.CompetitionTitleHi,
		NotificationBodyEn:        fmt.Sprintf("%s runs from %s to %s.", comp.CompetitionTitleEn, comp.CompetitionStartDate.Format("02 Jan 2006"), comp.CompetitionEndDate.Format("02 Jan 2006")),
		NotificationBodyHi:        comp.CompetitionTitleHi,
		NotificationType:          model.NotificationTypeCompetitionPublished,
		NotificationTags:          tags,
		NotificationCompetitionID: &comp.CompetitionID,
	}
	if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
		log.Printf("[ERROR] failed to record publish notification for %s: %v", comp.CompetitionID, err)
		return
	}

	phones, err := s.activeUserPhones(ctx)
	if err != nil {
		log.Printf("[ERROR] failed to load notification recipients: %v", err)
		return
	}
	s.WhatsApp.Broadcast(ctx, phones, row.NotificationBodyEn)
}

// NotifyResultDeclared announces declared results the same way.
func (s *NotificationService) NotifyResultDeclared(ctx context.Context, comp *compmodel.CompetitionModel) {
	tags := datatypes.JSON([]byte(`["competition","result"]`))

	row := model.NotificationModel{
		NotificationTitleEn:       "Results declared: " + comp.CompetitionTitleEn,
		NotificationTitleHi:       comp.CompetitionTitleHi,
		NotificationBodyEn:        fmt.Sprintf("Results for %s are out. Check your dashboard.", comp.CompetitionTitleEn),
		NotificationType:          model.NotificationTypeResultDeclared,
		NotificationTags:          tags,
		NotificationCompetitionID: &comp.CompetitionID,
	}
	if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
		log.Printf("[ERROR] failed to record result notification for %s: %v", comp.CompetitionID, err)
		return
	}

	phones, err := s.activeUserPhones(ctx)
	if err != nil {
		log.Printf("[ERROR] failed to load notification recipients: %v", err)
		return
	}
	s.WhatsApp.Broadcast(ctx, phones, row.NotificationBodyEn)
}

func (s *NotificationService) activeUserPhones(ctx context.Context) ([]string, error) {
	var users []usermodel.UserModel
	if err := s.DB.WithContext(ctx).
		Select("user_phone_number").
		Where("user_is_active = ? AND user_phone_number IS NOT NULL", true).
		Find(&users).Error; err != nil {
		return nil, err
	}
	phones := make([]string, 0, len(users))
	for i := range users {
		if users[i].UserPhoneNumber != nil && *users[i].UserPhoneNumber != "" {
			phones = append(phones, *users[i].UserPhoneNumber)
		}
	}
	return phones, nil
}

// List returns the most recent notifications for the user feed.
func (s *NotificationService) List(ctx context.Context, limit int) ([]model.NotificationModel, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	var rows []model.NotificationModel
	err := s.DB.WithContext(ctx).
		Order("notification_created_at desc").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
