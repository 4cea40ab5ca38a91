package handler_test

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/tcms-go-api/internal/dto"
	"github.com/noah-isme/tcms-go-api/internal/models"
)

func TestUserCreateAdminOnly(t *testing.T) {
	env := newTestApp(t)
	teacher := env.seedTeacher(t, "silva", "Mr Silva", "Math")

	payload := dto.UserCreateRequest{
		Username: "jane",
		Password: "secret-password",
		Email:    "jane@example.com",
		Role:     models.RoleStudent,
		StudentDetails: &dto.StudentDetails{
			FullName: "Jane Perera",
			Grade:    "10",
			Subjects: "Math, Science",
		},
	}

	resp, err := env.app.Test(authedRequest(t, http.MethodPost, "/api/users", payload, teacher.ID, models.RoleTeacher))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, err = env.app.Test(authedRequest(t, http.MethodPost, "/api/users", payload, 999, models.RoleAdmin))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var createBody struct {
		Success bool             `json:"success"`
		Data    dto.UserResponse `json:"data"`
	}
	decodeResponse(t, resp, &createBody)
	require.Equal(t, models.RoleStudent, createBody.Data.Role)
	require.Equal(t, "Jane Perera", createBody.Data.FullName)

	// A student account needs its nested profile.
	payload.Username = "nimal"
	payload.Email = "nimal@example.com"
	payload.StudentDetails = nil
	resp, err = env.app.Test(authedRequest(t, http.MethodPost, "/api/users", payload, 999, models.RoleAdmin))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestUserListAndTeacherDirectory(t *testing.T) {
	env := newTestApp(t)
	student := env.seedStudent(t, "jane", "Jane Perera", "10", "Math")
	teacher := env.seedTeacher(t, "silva", "Mr Silva", "Math")

	resp, err := env.app.Test(authedRequest(t, http.MethodGet, "/api/users?role=student", nil, teacher.ID, models.RoleTeacher))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var listBody struct {
		Success bool               `json:"success"`
		Data    []dto.UserResponse `json:"data"`
	}
	decodeResponse(t, resp, &listBody)
	require.Len(t, listBody.Data, 1)
	require.Equal(t, student.ID, listBody.Data[0].ID)

	// Students cannot browse accounts but may list teachers to address questions.
	resp, err = env.app.Test(authedRequest(t, http.MethodGet, "/api/users", nil, student.ID, models.RoleStudent))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, err = env.app.Test(authedRequest(t, http.MethodGet, "/api/users/teachers", nil, student.ID, models.RoleStudent))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var teacherBody struct {
		Success bool                `json:"success"`
		Data    []dto.TeacherOption `json:"data"`
	}
	decodeResponse(t, resp, &teacherBody)
	require.Len(t, teacherBody.Data, 1)
	require.Equal(t, teacher.ID, teacherBody.Data[0].TeacherID)
	require.Equal(t, "Mr Silva", teacherBody.Data[0].TeacherName)
}
