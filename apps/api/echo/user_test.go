package echoapi

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/shule/core/user"
)

func Test_userApi_login(t *testing.T) {
	tapp := setup(t)

	tests := []httpTest{
		{
			name: "Empty body", body: marchallObj(t, echoMap{}),
			wantCode: http.StatusBadRequest,
		},
		{
			name: "Unknown user", body: marchallObj(t, LoginRequest{Username: "nobody", Password: "s3cr3t"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{
			name: "Wrong password", body: marchallObj(t, LoginRequest{Username: "teacherjane", Password: "wrong"}),
			wantCode: http.StatusBadRequest, wantData: marchallObj(t, httpErr{Error: "authentication failed"}),
		},
		{name: "By username", body: marchallObj(t, LoginRequest{Username: "teacherjane", Password: "s3cr3t"}), wantCode: http.StatusOK},
		{name: "By email", body: marchallObj(t, LoginRequest{Username: "teacher@test.cd", Password: "s3cr3t"}), wantCode: http.StatusOK},
		{name: "Case-insensitive username", body: marchallObj(t, LoginRequest{Username: "TeacherJane", Password: "s3cr3t"}), wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
			tapp.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				var resp LoginResponse
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.NotEmpty(t, resp.Token)
			}
		})
	}
}

func Test_userApi_refreshToken(t *testing.T) {
	tapp := setup(t)

	req, rec := newAuthRequest(http.MethodPost, "/v1/users/token-refresh", getToken(t, tapp.teacher))
	tapp.app.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
}

func Test_userApi_register(t *testing.T) {
	tapp := setup(t)

	body := marchallObj(t, user.NewUser{
		Name:            "New Teacher",
		Username:        "newteacher",
		Email:           "new.teacher@test.cd",
		Password:        "s3cr3t",
		PasswordConfirm: "s3cr3t",
		Roles:           []string{user.RoleTeacher},
	})

	tests := []httpTest{
		{name: "Auth required", body: body, wantCode: http.StatusUnauthorized, wantData: marchallObj(t, errMissingToken)},
		{
			name: "Admin required", token: getToken(t, tapp.teacher), body: body,
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"}),
		},
		{name: "Created", token: getToken(t, tapp.admin), body: body, wantCode: http.StatusCreated},
		{name: "Duplicate username", token: getToken(t, tapp.admin), body: body, wantCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/users/register", tt.token, tt.body)
			tapp.app.ServeHTTP(rec, req)
			if rec.Code != tt.wantCode {
				t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
			}
		})
	}

	usr, err := tapp.usrSvc.GetByUsernameOrEmail("newteacher")
	require.NoError(t, err)
	assert.True(t, usr.IsTeacher())
	assert.True(t, usr.Active())
}

func Test_userApi_retrieve(t *testing.T) {
	tapp := setup(t)

	tests := []httpTest{
		{
			name: "Own profile", path: "/v1/users/" + tapp.pupil.ID, token: getToken(t, tapp.pupil),
			wantCode: http.StatusOK, wantData: marchallObj(t, tapp.pupil),
		},
		{
			name: "Other profile hidden", path: "/v1/users/" + tapp.teacher.ID, token: getToken(t, tapp.pupil),
			wantCode: http.StatusNotFound, wantData: marchallObj(t, httpErr{Error: "not found"}),
		},
		{
			name: "Admin sees anyone", path: "/v1/users/" + tapp.pupil.ID, token: getToken(t, tapp.admin),
			wantCode: http.StatusOK, wantData: marchallObj(t, tapp.pupil),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, tt.token)
			tapp.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}
