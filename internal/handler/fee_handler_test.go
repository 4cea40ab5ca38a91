package handler_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tcms-go-api/internal/dto"
	"github.com/noah-isme/tcms-go-api/internal/models"
)

func TestFeeMaterializeAndMarkPaid(t *testing.T) {
	env := newTestApp(t)
	student := env.seedStudent(t, "jane", "Jane Perera", "10", "Math")
	teacher := env.seedTeacher(t, "silva", "Mr Silva", "Math")

	payload := dto.FeeCreateRequest{
		StudentID: student.ID,
		Subject:   "Math",
		Month:     3,
		Year:      2026,
		Grade:     "10",
		Status:    models.FeeStatusPending,
	}
	resp, err := env.app.Test(authedRequest(t, http.MethodPost, "/api/fees", payload, teacher.ID, models.RoleTeacher))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var createBody struct {
		Success bool                `json:"success"`
		Data    dto.FeeEntryResponse `json:"data"`
	}
	decodeResponse(t, resp, &createBody)
	require.NotNil(t, createBody.Data.ID)
	require.Equal(t, models.FeeStatusPending, createBody.Data.Status)
	require.Equal(t, 1500.0, createBody.Data.Amount)
	require.Equal(t, "2026-03-31", createBody.Data.DueDate)

	// The key is unique; a second materialization conflicts.
	resp, err = env.app.Test(authedRequest(t, http.MethodPost, "/api/fees", payload, teacher.ID, models.RoleTeacher))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	payTarget := fmt.Sprintf("/api/fees/%d", *createBody.Data.ID)
	resp, err = env.app.Test(authedRequest(t, http.MethodPut, payTarget, dto.FeeUpdateRequest{
		Status:        models.FeeStatusPaid,
		PaymentMethod: "cash",
	}, teacher.ID, models.RoleTeacher))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var payBody struct {
		Success bool                 `json:"success"`
		Data    dto.FeeEntryResponse `json:"data"`
	}
	decodeResponse(t, resp, &payBody)
	require.Equal(t, models.FeeStatusPaid, payBody.Data.Status)
	require.NotNil(t, payBody.Data.PaidOn)

	resp, err = env.app.Test(authedRequest(t, http.MethodPut, payTarget, dto.FeeUpdateRequest{
		Status: models.FeeStatusPaid,
	}, teacher.ID, models.RoleTeacher))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)
}

func TestFeeStudentViewMergesPlaceholders(t *testing.T) {
	env := newTestApp(t)
	student := env.seedStudent(t, "jane", "Jane Perera", "10", "Math, Science")
	teacher := env.seedTeacher(t, "silva", "Mr Silva", "Math")

	resp, err := env.app.Test(authedRequest(t, http.MethodPost, "/api/fees", dto.FeeCreateRequest{
		StudentID: student.ID,
		Subject:   "Math",
		Month:     3,
		Year:      2026,
		Grade:     "10",
		Status:    models.FeeStatusPaid,
	}, teacher.ID, models.RoleTeacher))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, err = env.app.Test(authedRequest(t, http.MethodGet, "/api/fees/my?month=3&year=2026", nil, student.ID, models.RoleStudent))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var listBody struct {
		Success bool                   `json:"success"`
		Data    []dto.FeeEntryResponse `json:"data"`
	}
	decodeResponse(t, resp, &listBody)
	require.Len(t, listBody.Data, 2)

	bySubject := make(map[string]dto.FeeEntryResponse, len(listBody.Data))
	for _, entry := range listBody.Data {
		bySubject[entry.Subject] = entry
	}
	require.Equal(t, models.FeeStatusPaid, bySubject["Math"].Status)
	require.Equal(t, models.FeeStatusPending, bySubject["Science"].Status)
	require.Nil(t, bySubject["Science"].ID)

	// The staff listing is off limits for students.
	resp, err = env.app.Test(authedRequest(t, http.MethodGet, "/api/fees", nil, student.ID, models.RoleStudent))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}
