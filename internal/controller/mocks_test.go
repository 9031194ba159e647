package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/LeeCh0129/greenie-backend/internal/domain"
	"github.com/LeeCh0129/greenie-backend/internal/middleware"
	"github.com/LeeCh0129/greenie-backend/internal/service"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// MockAuthService mocks the auth service for controller tests
type MockAuthService struct {
	RegisterFunc       func(ctx context.Context, req service.RegisterRequest) (*service.RegisterResponse, error)
	LoginFunc          func(ctx context.Context, req service.LoginRequest) (*service.LoginResponse, error)
	LogoutFunc         func(ctx context.Context, accountID int64) error
	RefreshTokenFunc   func(ctx context.Context, refreshToken string) (*service.RefreshTokenResponse, error)
	ChangePasswordFunc func(ctx context.Context, req service.ChangePasswordRequest) error
	RequestOTPFunc     func(ctx context.Context, email, mode string) error
	VerifyOTPFunc      func(ctx context.Context, email, code, mode string) (string, error)
	CheckNicknameFunc  func(ctx context.Context, nickname string) error
	AuthenticateFunc   func(ctx context.Context, bearerHeader string) *domain.Principal
}

func (m *MockAuthService) Register(ctx context.Context, req service.RegisterRequest) (*service.RegisterResponse, error) {
	if m.RegisterFunc != nil {
		return m.RegisterFunc(ctx, req)
	}
	return &service.RegisterResponse{Message: "ok", AccountID: 1}, nil
}

func (m *MockAuthService) Login(ctx context.Context, req service.LoginRequest) (*service.LoginResponse, error) {
	if m.LoginFunc != nil {
		return m.LoginFunc(ctx, req)
	}
	return &service.LoginResponse{Message: "ok", AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (m *MockAuthService) Logout(ctx context.Context, accountID int64) error {
	if m.LogoutFunc != nil {
		return m.LogoutFunc(ctx, accountID)
	}
	return nil
}

func (m *MockAuthService) RefreshToken(ctx context.Context, refreshToken string) (*service.RefreshTokenResponse, error) {
	if m.RefreshTokenFunc != nil {
		return m.RefreshTokenFunc(ctx, refreshToken)
	}
	return &service.RefreshTokenResponse{AccessToken: "access"}, nil
}

func (m *MockAuthService) ChangePassword(ctx context.Context, req service.ChangePasswordRequest) error {
	if m.ChangePasswordFunc != nil {
		return m.ChangePasswordFunc(ctx, req)
	}
	return nil
}

func (m *MockAuthService) RequestOTP(ctx context.Context, email, mode string) error {
	if m.RequestOTPFunc != nil {
		return m.RequestOTPFunc(ctx, email, mode)
	}
	return nil
}

func (m *MockAuthService) VerifyOTP(ctx context.Context, email, code, mode string) (string, error) {
	if m.VerifyOTPFunc != nil {
		return m.VerifyOTPFunc(ctx, email, code, mode)
	}
	return email, nil
}

func (m *MockAuthService) CheckNickname(ctx context.Context, nickname string) error {
	if m.CheckNicknameFunc != nil {
		return m.CheckNicknameFunc(ctx, nickname)
	}
	return nil
}

func (m *MockAuthService) Authenticate(ctx context.Context, bearerHeader string) *domain.Principal {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx, bearerHeader)
	}
	return nil
}

// MockUserService mocks the user service for controller tests
type MockUserService struct {
	GetProfileFunc    func(ctx context.Context, accountID int64) (*service.Profile, error)
	DeleteAccountFunc func(ctx context.Context, principal *domain.Principal) error
}

func (m *MockUserService) GetProfile(ctx context.Context, accountID int64) (*service.Profile, error) {
	if m.GetProfileFunc != nil {
		return m.GetProfileFunc(ctx, accountID)
	}
	return nil, &domain.NotFoundError{Message: "account not found"}
}

func (m *MockUserService) DeleteAccount(ctx context.Context, principal *domain.Principal) error {
	if m.DeleteAccountFunc != nil {
		return m.DeleteAccountFunc(ctx, principal)
	}
	return nil
}

// MockPostService mocks the post service for controller tests
type MockPostService struct {
	CreateFunc   func(ctx context.Context, principal *domain.Principal, req service.CreatePostRequest) (*domain.Post, error)
	ListFunc     func(ctx context.Context, req service.PageRequest) (*service.Page[domain.Post], error)
	ListMineFunc func(ctx context.Context, principal *domain.Principal, req service.PageRequest) (*service.Page[domain.Post], error)
	GetFunc      func(ctx context.Context, principal *domain.Principal, postID int64) (*service.PostDetail, error)
	UpdateFunc   func(ctx context.Context, principal *domain.Principal, postID int64, req service.UpdatePostRequest) (*domain.Post, error)
	DeleteFunc   func(ctx context.Context, principal *domain.Principal, postID int64) error
}

func (m *MockPostService) Create(ctx context.Context, principal *domain.Principal, req service.CreatePostRequest) (*domain.Post, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, principal, req)
	}
	return &domain.Post{ID: 1, AuthorID: principal.ID, Title: req.Title, Body: req.Body}, nil
}

func (m *MockPostService) List(ctx context.Context, req service.PageRequest) (*service.Page[domain.Post], error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, req)
	}
	return &service.Page[domain.Post]{Items: []domain.Post{}}, nil
}

func (m *MockPostService) ListMine(ctx context.Context, principal *domain.Principal, req service.PageRequest) (*service.Page[domain.Post], error) {
	if m.ListMineFunc != nil {
		return m.ListMineFunc(ctx, principal, req)
	}
	return &service.Page[domain.Post]{Items: []domain.Post{}}, nil
}

func (m *MockPostService) Get(ctx context.Context, principal *domain.Principal, postID int64) (*service.PostDetail, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, principal, postID)
	}
	return nil, &domain.NotFoundError{Message: "post not found"}
}

func (m *MockPostService) Update(ctx context.Context, principal *domain.Principal, postID int64, req service.UpdatePostRequest) (*domain.Post, error) {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, principal, postID, req)
	}
	return &domain.Post{ID: postID}, nil
}

func (m *MockPostService) Delete(ctx context.Context, principal *domain.Principal, postID int64) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, principal, postID)
	}
	return nil
}

// MockCommentService mocks the comment service for controller tests
type MockCommentService struct {
	CreateFunc     func(ctx context.Context, principal *domain.Principal, req service.CreateCommentRequest) (*domain.Comment, error)
	ListByPostFunc func(ctx context.Context, postID int64, req service.PageRequest) (*service.Page[domain.Comment], error)
	ListMineFunc   func(ctx context.Context, principal *domain.Principal, req service.PageRequest) (*service.Page[domain.Comment], error)
}

func (m *MockCommentService) Create(ctx context.Context, principal *domain.Principal, req service.CreateCommentRequest) (*domain.Comment, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, principal, req)
	}
	return &domain.Comment{ID: 1, PostID: req.PostID, AuthorID: principal.ID, Content: req.Content, Group: 1}, nil
}

func (m *MockCommentService) ListByPost(ctx context.Context, postID int64, req service.PageRequest) (*service.Page[domain.Comment], error) {
	if m.ListByPostFunc != nil {
		return m.ListByPostFunc(ctx, postID, req)
	}
	return &service.Page[domain.Comment]{Items: []domain.Comment{}}, nil
}

func (m *MockCommentService) ListMine(ctx context.Context, principal *domain.Principal, req service.PageRequest) (*service.Page[domain.Comment], error) {
	if m.ListMineFunc != nil {
		return m.ListMineFunc(ctx, principal, req)
	}
	return &service.Page[domain.Comment]{Items: []domain.Comment{}}, nil
}

// MockLikeService mocks the like service for controller tests
type MockLikeService struct {
	TogglePostFunc    func(ctx context.Context, principal *domain.Principal, postID int64) (*service.LikeResult, error)
	ToggleCommentFunc func(ctx context.Context, principal *domain.Principal, postID, commentID int64) (*service.LikeResult, error)
}

func (m *MockLikeService) TogglePost(ctx context.Context, principal *domain.Principal, postID int64) (*service.LikeResult, error) {
	if m.TogglePostFunc != nil {
		return m.TogglePostFunc(ctx, principal, postID)
	}
	return &service.LikeResult{Liked: true, LikeCount: 1}, nil
}

func (m *MockLikeService) ToggleComment(ctx context.Context, principal *domain.Principal, postID, commentID int64) (*service.LikeResult, error) {
	if m.ToggleCommentFunc != nil {
		return m.ToggleCommentFunc(ctx, principal, postID, commentID)
	}
	return &service.LikeResult{Liked: true, LikeCount: 1}, nil
}

var (
	_ service.IAuthService    = (*MockAuthService)(nil)
	_ service.IUserService    = (*MockUserService)(nil)
	_ service.IPostService    = (*MockPostService)(nil)
	_ service.ICommentService = (*MockCommentService)(nil)
	_ service.ILikeService    = (*MockLikeService)(nil)
)

var testPrincipal = &domain.Principal{ID: 42, Email: "alice@example.com", Nickname: "alice", EmailVerified: true}

// newTestRouter mounts one handler behind the error middleware.
// Requests carrying "Authorization: Bearer valid" are authenticated as testPrincipal.
func newTestRouter(method, path string, handler gin.HandlerFunc) *gin.Engine {
	auth := &MockAuthService{
		AuthenticateFunc: func(ctx context.Context, bearerHeader string) *domain.Principal {
			if bearerHeader == "Bearer valid" {
				return testPrincipal
			}
			return nil
		},
	}

	r := gin.New()
	r.Use(middleware.ErrorHandler(), middleware.OptionalAuth(auth))
	r.Handle(method, path, handler)
	return r
}

func perform(t *testing.T, r http.Handler, method, target string, body interface{}, authed bool) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer valid")
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	return v
}
