package handler_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Astemirdum/library-circulation/circulation/internal/errs"
	"github.com/Astemirdum/library-circulation/circulation/internal/handler"
	"github.com/Astemirdum/library-circulation/circulation/internal/model"
	"github.com/Astemirdum/library-circulation/pkg/auth"
	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	service_mocks "github.com/Astemirdum/library-circulation/circulation/internal/handler/mocks"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestHandler_Routes(t *testing.T) {
	t.Parallel()
	type input struct {
		method   string
		path     string
		userName string
		role     string
		body     string
	}
	type response struct {
		expectedCode int
		expectedBody string
	}
	type mockBehavior func(r *service_mocks.MockCirculationService)

	var tests = []struct {
		name         string
		mockBehavior mockBehavior
		input        input
		response     response
	}{
		{
			name: "checkout ok",
			mockBehavior: func(r *service_mocks.MockCirculationService) {
				r.EXPECT().
					Checkout(gomock.Any(), "S1", "B-0001").
					Return(model.CopyRecord{CopyID: "B-0001", ExpiresOn: day(2024, 3, 31), RenewCount: 1}, nil)
			},
			input: input{
				method:   http.MethodPost,
				path:     "/api/v1/circulation/checkout",
				userName: "S1",
				body:     `{"copyId":"B-0001"}`,
			},
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: `{"copyId":"B-0001","expiresOn":"2024-03-31","renewsLeft":1}`,
			},
		},
		{
			name: "checkout err. already checked out",
			mockBehavior: func(r *service_mocks.MockCirculationService) {
				r.EXPECT().
					Checkout(gomock.Any(), "S2", "B-0001").
					Return(model.CopyRecord{}, errs.ErrAlreadyCheckedOut)
			},
			input: input{
				method:   http.MethodPost,
				path:     "/api/v1/circulation/checkout",
				userName: "S2",
				body:     `{"copyId":"B-0001"}`,
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"copy is already checked out"}`,
			},
		},
		{
			name:         "checkout err. no user",
			mockBehavior: func(r *service_mocks.MockCirculationService) {},
			input: input{
				method: http.MethodPost,
				path:   "/api/v1/circulation/checkout",
				body:   `{"copyId":"B-0001"}`,
			},
			response: response{
				expectedCode: http.StatusUnauthorized,
				expectedBody: `{"message":"user-name is empty"}`,
			},
		},
		{
			name:         "checkout err. copyId required",
			mockBehavior: func(r *service_mocks.MockCirculationService) {},
			input: input{
				method:   http.MethodPost,
				path:     "/api/v1/circulation/checkout",
				userName: "S1",
				body:     `{}`,
			},
			response: response{
				expectedCode: http.StatusBadRequest,
			},
		},
		{
			name: "checkout err. persistence",
			mockBehavior: func(r *service_mocks.MockCirculationService) {
				r.EXPECT().
					Checkout(gomock.Any(), "S1", "B-0001").
					Return(model.CopyRecord{}, errors.Wrap(errs.ErrPersistence, "update copy"))
			},
			input: input{
				method:   http.MethodPost,
				path:     "/api/v1/circulation/checkout",
				userName: "S1",
				body:     `{"copyId":"B-0001"}`,
			},
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"message":"update copy: persistence failure"}`,
			},
		},
		{
			name: "renew ok",
			mockBehavior: func(r *service_mocks.MockCirculationService) {
				r.EXPECT().
					Renew(gomock.Any(), "S1", "B-0001").
					Return(model.CopyRecord{CopyID: "B-0001", ExpiresOn: day(2024, 4, 10), RenewCount: 0}, nil)
			},
			input: input{
				method:   http.MethodPost,
				path:     "/api/v1/circulation/renew",
				userName: "S1",
				body:     `{"copyId":"B-0001"}`,
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"copyId":"B-0001","expiresOn":"2024-04-10","renewsLeft":0}`,
			},
		},
		{
			name: "renew err. exhausted",
			mockBehavior: func(r *service_mocks.MockCirculationService) {
				r.EXPECT().
					Renew(gomock.Any(), "S1", "B-0001").
					Return(model.CopyRecord{}, errs.ErrRenewalExhausted)
			},
			input: input{
				method:   http.MethodPost,
				path:     "/api/v1/circulation/renew",
				userName: "S1",
				body:     `{"copyId":"B-0001"}`,
			},
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"no renewals left for this loan"}`,
			},
		},
		{
			name: "checkin ok",
			mockBehavior: func(r *service_mocks.MockCirculationService) {
				r.EXPECT().
					CheckIn(gomock.Any(), "S1", "B-0001", "Shelf 3").
					Return(model.CheckInResult{CopyID: "B-0001", LateDays: 5, LateFee: 50}, nil)
			},
			input: input{
				method:   http.MethodPost,
				path:     "/api/v1/circulation/checkin",
				userName: "L1",
				role:     auth.RoleLibrarian,
				body:     `{"borrowerId":"S1","copyId":"B-0001","location":"Shelf 3"}`,
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"copyId":"B-0001","lateDays":5,"lateFee":50}`,
			},
		},
		{
			name: "checkin err. unknown copy",
			mockBehavior: func(r *service_mocks.MockCirculationService) {
				r.EXPECT().
					CheckIn(gomock.Any(), "S1", "B-9999", "Shelf 3").
					Return(model.CheckInResult{}, errs.ErrNotFound)
			},
			input: input{
				method:   http.MethodPost,
				path:     "/api/v1/circulation/checkin",
				userName: "A1",
				role:     auth.RoleAdmin,
				body:     `{"borrowerId":"S1","copyId":"B-9999","location":"Shelf 3"}`,
			},
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"not found"}`,
			},
		},
		{
			name:         "checkin err. borrower role",
			mockBehavior: func(r *service_mocks.MockCirculationService) {},
			input: input{
				method:   http.MethodPost,
				path:     "/api/v1/circulation/checkin",
				userName: "S1",
				body:     `{"borrowerId":"S1","copyId":"B-0001","location":"Shelf 3"}`,
			},
			response: response{
				expectedCode: http.StatusForbidden,
				expectedBody: `{"message":"librarian role required"}`,
			},
		},
		{
			name: "availability due",
			mockBehavior: func(r *service_mocks.MockCirculationService) {
				d := model.NewDate(day(2024, 3, 31))
				r.EXPECT().
					RequestAvailability(gomock.Any(), "B-0001").
					Return(model.AvailabilityReport{
						CopyID:       "B-0001",
						State:        model.AvailabilityDue,
						ExpectedDate: &d,
						WaitingList:  1,
						Message:      "expected to be available on 2024-03-31",
					}, nil)
			},
			input: input{
				method:   http.MethodGet,
				path:     "/api/v1/copies/B-0001/availability",
				userName: "S2",
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"copyId":"B-0001","state":"due","expectedDate":"2024-03-31","waitingList":1,"message":"expected to be available on 2024-03-31"}`,
			},
		},
		{
			name: "me ok",
			mockBehavior: func(r *service_mocks.MockCirculationService) {
				r.EXPECT().
					Account(gomock.Any(), "S1").
					Return(model.Account{BorrowerID: "S1", Email: "s1@example.com", DueAmount: 50}, nil)
			},
			input: input{
				method:   http.MethodGet,
				path:     "/api/v1/accounts/me",
				userName: "S1",
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: `{"borrowerId":"S1","email":"s1@example.com","dueAmount":50}`,
			},
		},
		{
			name:         "health",
			mockBehavior: func(r *service_mocks.MockCirculationService) {},
			input: input{
				method: http.MethodGet,
				path:   "/manage/health",
			},
			response: response{
				expectedCode: http.StatusOK,
				expectedBody: "OK",
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			c := gomock.NewController(t)
			defer c.Finish()
			svc := service_mocks.NewMockCirculationService(c)
			h := handler.New(svc, zap.NewNop())
			e := h.NewRouter()

			var body io.Reader = http.NoBody
			if tt.input.body != "" {
				body = strings.NewReader(tt.input.body)
			}
			r := httptest.NewRequest(tt.input.method, tt.input.path, body)
			r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
			if tt.input.userName != "" {
				r.Header.Set(auth.XUserNameHeader, tt.input.userName)
			}
			if tt.input.role != "" {
				r.Header.Set(auth.XUserRoleHeader, tt.input.role)
			}
			w := httptest.NewRecorder()

			tt.mockBehavior(svc)
			e.ServeHTTP(w, r)

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}
