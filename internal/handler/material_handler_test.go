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

func TestMaterialShareAndStudentListing(t *testing.T) {
	env := newTestApp(t)
	student := env.seedStudent(t, "jane", "Jane Perera", "10", "Math")
	teacher := env.seedTeacher(t, "silva", "Mr Silva", "Math")

	resp, err := env.app.Test(authedRequest(t, http.MethodPost, "/api/materials", dto.MaterialCreateRequest{
		LessonName: "Quadratic equations",
		Subject:    "Math",
		Grade:      "10",
		FileURL:    "https://files.test/quadratics.pdf",
	}, teacher.ID, models.RoleTeacher))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var createBody struct {
		Success bool                 `json:"success"`
		Data    dto.MaterialResponse `json:"data"`
	}
	decodeResponse(t, resp, &createBody)
	require.Equal(t, "Mr Silva", createBody.Data.TeacherName)

	// Material for another grade stays invisible to the student.
	resp, err = env.app.Test(authedRequest(t, http.MethodPost, "/api/materials", dto.MaterialCreateRequest{
		LessonName: "Advanced calculus",
		Subject:    "Math",
		Grade:      "12",
		FileURL:    "https://files.test/calculus.pdf",
	}, teacher.ID, models.RoleTeacher))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	resp, err = env.app.Test(authedRequest(t, http.MethodGet, "/api/materials", nil, student.ID, models.RoleStudent))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var listBody struct {
		Success bool                   `json:"success"`
		Data    []dto.MaterialResponse `json:"data"`
	}
	decodeResponse(t, resp, &listBody)
	require.Len(t, listBody.Data, 1)
	require.Equal(t, "Quadratic equations", listBody.Data[0].LessonName)
}

func TestMaterialDeleteOwnerOnly(t *testing.T) {
	env := newTestApp(t)
	student := env.seedStudent(t, "jane", "Jane Perera", "10", "Math")
	owner := env.seedTeacher(t, "silva", "Mr Silva", "Math")
	other := env.seedTeacher(t, "fernando", "Ms Fernando", "Science")

	resp, err := env.app.Test(authedRequest(t, http.MethodPost, "/api/materials", dto.MaterialCreateRequest{
		LessonName: "Quadratic equations",
		Subject:    "Math",
		Grade:      "10",
		FileURL:    "https://files.test/quadratics.pdf",
	}, owner.ID, models.RoleTeacher))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)

	var createBody struct {
		Success bool                 `json:"success"`
		Data    dto.MaterialResponse `json:"data"`
	}
	decodeResponse(t, resp, &createBody)

	target := fmt.Sprintf("/api/materials/%d", createBody.Data.ID)

	resp, err = env.app.Test(authedRequest(t, http.MethodDelete, target, nil, student.ID, models.RoleStudent))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, err = env.app.Test(authedRequest(t, http.MethodDelete, target, nil, other.ID, models.RoleTeacher))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, err = env.app.Test(authedRequest(t, http.MethodDelete, target, nil, owner.ID, models.RoleTeacher))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = env.app.Test(authedRequest(t, http.MethodDelete, target, nil, owner.ID, models.RoleTeacher))
	require.NoError(t, err)
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
