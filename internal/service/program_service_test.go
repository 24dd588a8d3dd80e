package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/internship-api/internal/dto"
	"github.com/noah-isme/internship-api/internal/models"
	appErrors "github.com/noah-isme/internship-api/pkg/errors"
)

func TestProgramLifecycle(t *testing.T) {
	store := newProgramStoreStub()
	svc := NewProgramService(store, nil, nil, nil)
	ctx := context.Background()
	admin := callerFor("admin", models.RoleAdmin)
	student := callerFor("s1", models.RoleStudent)

	req := dto.CreateProgramRequest{Title: "KKN Gelombang 1", StartDate: "2024-07-01", EndDate: "2024-08-31"}
	_, err := svc.Create(ctx, req, student)
	assert.True(t, appErrors.IsKind(err, appErrors.CodeInsufficientRole))

	program, err := svc.Create(ctx, req, admin)
	require.NoError(t, err)
	assert.Equal(t, "2024-07-01", program.StartDate.Format("2006-01-02"))

	archived, err := svc.Archive(ctx, program.ID, admin)
	require.NoError(t, err)
	assert.True(t, archived.Archived)
	_, err = svc.Archive(ctx, program.ID, admin)
	require.NoError(t, err)

	visible, err := svc.List(ctx, true, student)
	require.NoError(t, err)
	assert.Empty(t, visible)
	all, err := svc.List(ctx, true, admin)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	_, err = svc.Archive(ctx, "missing", admin)
	assert.True(t, appErrors.IsKind(err, appErrors.CodeNotFound))
}

func TestProgramDatesValidated(t *testing.T) {
	svc := NewProgramService(newProgramStoreStub(), nil, nil, nil)
	admin := callerFor("admin", models.RoleAdmin)

	_, err := svc.Create(context.Background(), dto.CreateProgramRequest{Title: "KKN", StartDate: "2024-08-01", EndDate: "2024-07-01"}, admin)
	assert.True(t, appErrors.IsKind(err, appErrors.CodeValidation))

	_, err = svc.Create(context.Background(), dto.CreateProgramRequest{Title: "KKN", StartDate: "01/08/2024", EndDate: "2024-07-01"}, admin)
	assert.True(t, appErrors.IsKind(err, appErrors.CodeValidation))
}
