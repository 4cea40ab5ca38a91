package handler_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tcms-go-api/internal/dto"
	"github.com/noah-isme/tcms-go-api/internal/models"
)

func TestAttendanceMarkAndListView(t *testing.T) {
	env := newTestApp(t)
	marked := env.seedStudent(t, "jane", "Jane Perera", "10", "Math")
	unmarked := env.seedStudent(t, "nimal", "Nimal Silva", "10", "Math")
	teacher := env.seedTeacher(t, "silva", "Mr Silva", "Math")

	payload := []dto.AttendanceMarkRequest{
		{StudentID: marked.ID, Date: "2026-03-02", Subject: "Math", Status: models.AttendanceStatusPresent},
	}
	resp, err := env.app.Test(authedRequest(t, http.MethodPost, "/api/attendance", payload, teacher.ID, models.RoleTeacher))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	// Changing a recorded status is refused.
	payload[0].Status = models.AttendanceStatusAbsent
	resp, err = env.app.Test(authedRequest(t, http.MethodPost, "/api/attendance", payload, teacher.ID, models.RoleTeacher))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusConflict, resp.StatusCode)

	resp, err = env.app.Test(authedRequest(t, http.MethodGet, "/api/attendance?grade=10&subject=Math&date=2026-03-02", nil, teacher.ID, models.RoleTeacher))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var listBody struct {
		Success bool                          `json:"success"`
		Data    []dto.AttendanceEntryResponse `json:"data"`
	}
	decodeResponse(t, resp, &listBody)
	require.Len(t, listBody.Data, 2)

	byStudent := make(map[uint]dto.AttendanceEntryResponse, len(listBody.Data))
	for _, entry := range listBody.Data {
		byStudent[entry.StudentID] = entry
	}
	require.Equal(t, models.AttendanceStatusPresent, byStudent[marked.ID].Status)
	require.Equal(t, models.AttendanceStatusNone, byStudent[unmarked.ID].Status)
	require.Nil(t, byStudent[unmarked.ID].ID)
}

func TestAttendanceRoleGuards(t *testing.T) {
	env := newTestApp(t)
	student := env.seedStudent(t, "jane", "Jane Perera", "10", "Math")
	teacher := env.seedTeacher(t, "silva", "Mr Silva", "Math")

	// Students cannot mark attendance.
	payload := []dto.AttendanceMarkRequest{
		{StudentID: student.ID, Date: "2026-03-02", Subject: "Math", Status: models.AttendanceStatusPresent},
	}
	resp, err := env.app.Test(authedRequest(t, http.MethodPost, "/api/attendance", payload, student.ID, models.RoleStudent))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	// Teachers do not use the personal history endpoint.
	resp, err = env.app.Test(authedRequest(t, http.MethodGet, "/api/attendance/my", nil, teacher.ID, models.RoleTeacher))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)
}

func TestAttendanceStudentHistory(t *testing.T) {
	env := newTestApp(t)
	student := env.seedStudent(t, "jane", "Jane Perera", "10", "Math, Science")
	teacher := env.seedTeacher(t, "silva", "Mr Silva", "Math")

	payload := []dto.AttendanceMarkRequest{
		{StudentID: student.ID, Date: "2026-03-02", Subject: "Math", Status: models.AttendanceStatusPresent},
		{StudentID: student.ID, Date: "2026-03-03", Subject: "Science", Status: models.AttendanceStatusAbsent},
	}
	resp, err := env.app.Test(authedRequest(t, http.MethodPost, "/api/attendance", payload, teacher.ID, models.RoleTeacher))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, err = env.app.Test(authedRequest(t, http.MethodGet, "/api/attendance/my?subject=Math", nil, student.ID, models.RoleStudent))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var listBody struct {
		Success bool                          `json:"success"`
		Data    []dto.AttendanceEntryResponse `json:"data"`
	}
	decodeResponse(t, resp, &listBody)
	require.Len(t, listBody.Data, 1)
	require.Equal(t, "Math", listBody.Data[0].Subject)
}
