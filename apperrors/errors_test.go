package apperrors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sareeghar/storefront/models"
	"github.com/stretchr/testify/assert"
)

func TestWrite(t *testing.T) {
	testCases := []struct {
		name           string
		err            error
		expectedStatus int
		expectedError  string
		expectedFields map[string]string
	}{
		{
			name:           "Validation error keeps field errors",
			err:            Validation("Invalid query parameters", map[string]string{"limit": "must be an integer"}),
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid query parameters",
			expectedFields: map[string]string{"limit": "must be an integer"},
		},
		{
			name:           "Wrapped product sentinel maps to 404",
			err:            fmt.Errorf("load: %w", models.ErrProductNotFound),
			expectedStatus: http.StatusNotFound,
			expectedError:  "Product not found",
		},
		{
			name:           "Order sentinel maps to 404",
			err:            models.ErrOrderNotFound,
			expectedStatus: http.StatusNotFound,
			expectedError:  "Order not found",
		},
		{
			name:           "Invalid transition maps to 409",
			err:            fmt.Errorf("%w: shipped to cancelled", models.ErrInvalidTransition),
			expectedStatus: http.StatusConflict,
			expectedError:  "Order status cannot be changed",
		},
		{
			name:           "Unknown errors hide their cause",
			err:            errors.New("pq: connection refused"),
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Failed to do the thing",
		},
		{
			name:           "Unauthorized",
			err:            Unauthorized("Unauthorized"),
			expectedStatus: http.StatusUnauthorized,
			expectedError:  "Unauthorized",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			req := httptest.NewRequest("GET", "/api/thing", nil)
			rec := httptest.NewRecorder()

			// Act
			Write(rec, req, tc.err, "Failed to do the thing")

			// Assert
			assert.Equal(t, tc.expectedStatus, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body struct {
				Error  string            `json:"error"`
				Fields map[string]string `json:"fields"`
			}
			assert.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tc.expectedError, body.Error)
			assert.Equal(t, tc.expectedFields, body.Fields)
		})
	}
}

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := Internal("Failed", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Failed: boom", err.Error())
	assert.Equal(t, "Not here", NotFound("Not here").Error())
}
