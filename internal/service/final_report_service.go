package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/internship-api/internal/dto"
	"github.com/noah-isme/internship-api/internal/models"
	"github.com/noah-isme/internship-api/internal/repository"
	appErrors "github.com/noah-isme/internship-api/pkg/errors"
)

type finalReportStore interface {
	teamReader
	TransitionFinalReport(ctx context.Context, tr repository.FinalReportTransition) error
	AddDocument(ctx context.Context, doc *models.TeamDocument) error
	ListDocuments(ctx context.Context, teamID string) ([]models.TeamDocument, error)
}

// FinalReportService manages team documentation and the final report review.
type FinalReportService struct {
	teams     finalReportStore
	files     FileStore
	signer    URLSigner
	validator *validator.Validate
	notifier
}

// NewFinalReportService constructs the service.
func NewFinalReportService(teams finalReportStore, files FileStore, signer URLSigner, validate *validator.Validate, events EventPublisher, analytics AnalyticsTracker, logger *zap.Logger) *FinalReportService {
	if validate == nil {
		validate = dto.NewValidator()
	}
	return &FinalReportService{
		teams:     teams,
		files:     files,
		signer:    signer,
		validator: validate,
		notifier:  newNotifier(events, analytics, logger),
	}
}

// UploadDocument appends a file to the team documentation while the final
// report is still editable.
func (s *FinalReportService) UploadDocument(ctx context.Context, teamID string, req dto.UploadDocumentRequest, file dto.UploadedFile, caller *models.Caller) (*models.TeamDocument, error) {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, storeError(err, "team not found", "load team")
	}
	if err := RequireTeamLeaderOrAdmin(caller, team); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid document kind")
	}
	if !team.FinalReportStatus.Editable() {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "documents cannot be added while the final report is "+string(team.FinalReportStatus))
	}
	kind := models.DocumentKind(req.Kind)
	if kind == "" {
		kind = models.DocumentDocumentation
	}

	stored, err := storeUploads(s.files, "teams/"+teamID, []dto.UploadedFile{file}, s.logger)
	if err != nil {
		return nil, err
	}
	doc := &models.TeamDocument{
		TeamID:     teamID,
		Name:       stored[0].Name,
		URL:        stored[0].Key,
		Kind:       kind,
		UploadedBy: caller.UserID,
		UploadedAt: time.Now().UTC(),
	}
	if err := s.teams.AddDocument(ctx, doc); err != nil {
		discardUploads(s.files, stored, s.logger)
		return nil, appErrors.Unavailable(err, "failed to record team document")
	}
	doc.DownloadURL = signURL(s.signer, teamID, doc.URL, s.logger)

	s.publish(ctx, TopicTeamUpdated, map[string]interface{}{"teamId": teamID, "document": doc})
	s.track(caller.UserID, EventDocumentUploaded, map[string]interface{}{"teamId": teamID, "kind": string(kind)})
	return doc, nil
}

// ListDocuments returns the team documentation with signed download links.
func (s *FinalReportService) ListDocuments(ctx context.Context, teamID string, caller *models.Caller) ([]models.TeamDocument, error) {
	team, err := loadTeamWithMembers(ctx, s.teams, teamID)
	if err != nil {
		return nil, err
	}
	if err := RequireTeamAccess(caller, team); err != nil {
		return nil, err
	}
	docs, err := s.teams.ListDocuments(ctx, teamID)
	if err != nil {
		return nil, appErrors.Unavailable(err, "failed to list team documents")
	}
	if docs == nil {
		docs = []models.TeamDocument{}
	}
	for i := range docs {
		docs[i].DownloadURL = signURL(s.signer, teamID, docs[i].URL, s.logger)
	}
	return docs, nil
}

// SubmitFinalReport sends the final report for review. At least one
// final_report document is required.
func (s *FinalReportService) SubmitFinalReport(ctx context.Context, teamID string, caller *models.Caller) (*models.Team, error) {
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, storeError(err, "team not found", "load team")
	}
	if err := RequireTeamLeaderOrAdmin(caller, team); err != nil {
		return nil, err
	}
	if !team.FinalReportStatus.Editable() {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "final report is already "+string(team.FinalReportStatus))
	}
	docs, err := s.teams.ListDocuments(ctx, teamID)
	if err != nil {
		return nil, appErrors.Unavailable(err, "failed to list team documents")
	}
	if !hasDocumentKind(docs, models.DocumentFinalReport) {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "upload a final_report document before submitting")
	}

	err = s.transition(ctx, repository.FinalReportTransition{
		TeamID: teamID,
		From:   []models.FinalReportStatus{models.FinalReportDraft, models.FinalReportRevisionRequested},
		To:     models.FinalReportSubmitted,
		At:     time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	updated, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, storeError(err, "team not found", "load team")
	}
	s.publish(ctx, TopicReportSubmitted, map[string]interface{}{"teamId": teamID, "finalReportStatus": updated.FinalReportStatus})
	s.track(caller.UserID, EventFinalReportSubmitted, map[string]interface{}{"teamId": teamID})
	return updated, nil
}

// ReviewFinalReport approves the submitted final report or requests a
// revision. A revision request requires notes.
func (s *FinalReportService) ReviewFinalReport(ctx context.Context, teamID string, req dto.ReviewFinalReportRequest, caller *models.Caller) (*models.Team, error) {
	if err := Authorize(caller, CapReviewer); err != nil {
		return nil, err
	}
	team, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, storeError(err, "team not found", "load team")
	}
	if err := RequireTeamSupervisorOrAdmin(caller, team); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "decision must be approved or revision_requested")
	}
	decision := models.FinalReportStatus(req.Decision)
	notes := strings.TrimSpace(req.Notes)
	if decision == models.FinalReportRevisionRequested && notes == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "notes are required when requesting revision")
	}
	if team.FinalReportStatus != models.FinalReportSubmitted {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition, "only a submitted final report can be reviewed")
	}

	reviewer := caller.UserID
	err = s.transition(ctx, repository.FinalReportTransition{
		TeamID:     teamID,
		From:       []models.FinalReportStatus{models.FinalReportSubmitted},
		To:         decision,
		ReviewedBy: &reviewer,
		Notes:      stringPtr(notes),
		At:         time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	updated, err := s.teams.GetByID(ctx, teamID)
	if err != nil {
		return nil, storeError(err, "team not found", "load team")
	}
	s.publish(ctx, TopicReportUpdated, map[string]interface{}{"teamId": teamID, "finalReportStatus": updated.FinalReportStatus})
	s.track(caller.UserID, EventFinalReportReviewed, map[string]interface{}{"teamId": teamID, "decision": req.Decision})
	return updated, nil
}

func (s *FinalReportService) transition(ctx context.Context, tr repository.FinalReportTransition) error {
	if err := s.teams.TransitionFinalReport(ctx, tr); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrInvalidTransition, "final report was modified concurrently")
		}
		return appErrors.Unavailable(err, "failed to update final report status")
	}
	return nil
}

func hasDocumentKind(docs []models.TeamDocument, kind models.DocumentKind) bool {
	for _, d := range docs {
		if d.Kind == kind {
			return true
		}
	}
	return false
}
