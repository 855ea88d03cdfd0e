package dto

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/foodgram/internal/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testContext(t *testing.T, method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	c.Request = httptest.NewRequest(method, target, reader)
	if body != "" {
		c.Request.Header.Set("Content-Type", "application/json")
	}

	return c, w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	return resp
}

func TestNewErrorResponse(t *testing.T) {
	got := NewErrorResponse(ErrorCodeNotFound, "resource not found")

	assert.Equal(t, &ErrorResponse{Error: ErrorDetail{Code: ErrorCodeNotFound, Message: "resource not found"}}, got)
}

func TestNewErrorResponseWithDetails(t *testing.T) {
	details := map[string]string{"email": "must be a valid email address"}

	got := NewErrorResponseWithDetails(ErrorCodeValidation, "request validation failed", details)

	assert.Equal(t, details, got.Error.Details)
	assert.Equal(t, ErrorCodeValidation, got.Error.Code)
}

func TestWithTraceID(t *testing.T) {
	resp := NewErrorResponse(ErrorCodeInternal, "internal error")

	got := resp.WithTraceID("trace-123")

	assert.Same(t, resp, got)
	assert.Equal(t, "trace-123", got.TraceID)
}

func TestErrorResponse_JSONShape(t *testing.T) {
	body, err := json.Marshal(NewErrorResponse(ErrorCodeValidation, "duplicate tags").WithTraceID("abc"))
	require.NoError(t, err)

	assert.JSONEq(t, `{"error":{"code":"VALIDATION_ERROR","message":"duplicate tags"},"trace_id":"abc"}`, string(body))
}

func TestHTTPStatusFromCode(t *testing.T) {
	tests := []struct {
		code string
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeConflict, http.StatusBadRequest},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeBadRequest, http.StatusBadRequest},
		{ErrorCodeForbidden, http.StatusForbidden},
		{ErrorCodeUnauthorized, http.StatusUnauthorized},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeTimeout, http.StatusGatewayTimeout},
		{ErrorCodeRateLimited, http.StatusTooManyRequests},
		{ErrorCodeInternal, http.StatusInternalServerError},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatusFromCode(tt.code))
		})
	}
}

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
		wantDetails map[string]string
	}{
		{
			name:        "validation error carries its field",
			err:         domain.NewValidationError("tags", domain.MsgDuplicateTags),
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrorCodeValidation,
			wantMessage: domain.MsgDuplicateTags,
			wantDetails: map[string]string{"tags": domain.MsgDuplicateTags},
		},
		{
			name:        "wrapped validation error",
			err:         fmt.Errorf("validate failed: %w", domain.NewValidationError("id", "recipe is already in favorites")),
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrorCodeValidation,
			wantMessage: "recipe is already in favorites",
			wantDetails: map[string]string{"id": "recipe is already in favorites"},
		},
		{
			name:        "conflict is a bad request",
			err:         domain.NewConflictError("user", "email already registered"),
			wantStatus:  http.StatusBadRequest,
			wantCode:    ErrorCodeConflict,
			wantMessage: "user email already registered",
		},
		{
			name:        "not found keeps the root message",
			err:         fmt.Errorf("loading recipe: %w", domain.NewNotFoundError("recipe", "7")),
			wantStatus:  http.StatusNotFound,
			wantCode:    ErrorCodeNotFound,
			wantMessage: "recipe 7 not found",
		},
		{
			name:        "unauthenticated",
			err:         domain.NewUnauthenticatedError(""),
			wantStatus:  http.StatusUnauthorized,
			wantCode:    ErrorCodeUnauthorized,
			wantMessage: "authentication credentials were not provided",
		},
		{
			name:        "forbidden shows the reason",
			err:         domain.NewForbiddenError("update recipe", "you do not have permission to perform this action"),
			wantStatus:  http.StatusForbidden,
			wantCode:    ErrorCodeForbidden,
			wantMessage: "you do not have permission to perform this action",
		},
		{
			name:        "unavailable",
			err:         domain.NewUnavailableError("image-store", "bucket unreachable"),
			wantStatus:  http.StatusServiceUnavailable,
			wantCode:    ErrorCodeUnavailable,
			wantMessage: "image-store unavailable: bucket unreachable",
		},
		{
			name:        "deadline exceeded",
			err:         fmt.Errorf("listing recipes: %w", context.DeadlineExceeded),
			wantStatus:  http.StatusGatewayTimeout,
			wantCode:    ErrorCodeTimeout,
			wantMessage: "request timeout exceeded",
		},
		{
			name:        "unknown errors are hidden",
			err:         errors.New("pq: connection reset"),
			wantStatus:  http.StatusInternalServerError,
			wantCode:    ErrorCodeInternal,
			wantMessage: "an internal error occurred",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := MapDomainError(tt.err)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantMessage, resp.Error.Message)
			assert.Equal(t, tt.wantDetails, resp.Error.Details)
		})
	}

	t.Run("nil error", func(t *testing.T) {
		status, resp := MapDomainError(nil)

		assert.Equal(t, http.StatusOK, status)
		assert.Nil(t, resp)
	})
}

func TestGetTraceID(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*gin.Context)
		want  string
	}{
		{
			name:  "trace ID in context",
			setup: func(c *gin.Context) { c.Set("trace_id", "context-trace-123") },
			want:  "context-trace-123",
		},
		{
			name:  "request ID header",
			setup: func(c *gin.Context) { c.Request.Header.Set("X-Request-ID", "header-trace-456") },
			want:  "header-trace-456",
		},
		{
			name: "context takes precedence",
			setup: func(c *gin.Context) {
				c.Set("trace_id", "context-trace-123")
				c.Request.Header.Set("X-Request-ID", "header-trace-456")
			},
			want: "context-trace-123",
		},
		{
			name:  "nothing set",
			setup: func(*gin.Context) {},
			want:  "",
		},
		{
			name:  "wrong type in context",
			setup: func(c *gin.Context) { c.Set("trace_id", 12345) },
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := testContext(t, http.MethodGet, "/", "")
			tt.setup(c)

			assert.Equal(t, tt.want, GetTraceID(c))
		})
	}
}

func TestHandleError(t *testing.T) {
	c, w := testContext(t, http.MethodPost, "/api/recipes", "")
	c.Set("trace_id", "trace-789")

	HandleError(c, domain.NewValidationError("ingredients", domain.MsgIngredientsRequired))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	resp := decodeError(t, w)
	assert.Equal(t, ErrorCodeValidation, resp.Error.Code)
	assert.Equal(t, domain.MsgIngredientsRequired, resp.Error.Message)
	assert.Equal(t, "trace-789", resp.TraceID)
}

func TestAbortWithError(t *testing.T) {
	c, w := testContext(t, http.MethodGet, "/api/users/me", "")

	AbortWithError(c, domain.NewUnauthenticatedError("token has been revoked"))

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "token has been revoked", decodeError(t, w).Error.Message)
}

func TestAbortWithErrorCode(t *testing.T) {
	c, w := testContext(t, http.MethodPost, "/api/auth/token/login", "")

	AbortWithErrorCode(c, ErrorCodeRateLimited, "too many requests")

	assert.True(t, c.IsAborted())
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestRespondWithBindError(t *testing.T) {
	t.Run("struct validation lists fields", func(t *testing.T) {
		c, w := testContext(t, http.MethodPost, "/api/users", `{"email":"not-an-email"}`)

		var req RegisterRequest
		err := BindAndValidate(c, &req)
		require.Error(t, err)

		RespondWithBindError(c, err)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		resp := decodeError(t, w)
		assert.Equal(t, ErrorCodeValidation, resp.Error.Code)
		assert.Contains(t, resp.Error.Details, "email")
		assert.Contains(t, resp.Error.Details, "username")
		assert.Contains(t, resp.Error.Details, "password")
	})

	t.Run("malformed body", func(t *testing.T) {
		c, w := testContext(t, http.MethodPost, "/api/recipes", `{"tags":`)

		var req RecipeRequest
		err := BindAndValidate(c, &req)
		require.ErrorIs(t, err, ErrBinding)

		RespondWithBindError(c, err)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, ErrorCodeBadRequest, decodeError(t, w).Error.Code)
	})

	t.Run("domain validation error", func(t *testing.T) {
		c, w := testContext(t, http.MethodPost, "/api/recipes", "")

		RespondWithBindError(c, domain.NewValidationError("image", "image is not valid base64"))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, map[string]string{"image": "image is not valid base64"}, decodeError(t, w).Error.Details)
	})
}

func TestPaging_PageRequest(t *testing.T) {
	tests := []struct {
		name   string
		paging Paging
		query  string
		want   domain.PageRequest
	}{
		{"defaults", DefaultPaging(), "", domain.PageRequest{Number: 1, Size: DefaultLimit}},
		{"explicit", DefaultPaging(), "?page=3&limit=10", domain.PageRequest{Number: 3, Size: 10}},
		{"limit clamped", DefaultPaging(), "?limit=500", domain.PageRequest{Number: 1, Size: MaxLimit}},
		{"garbage falls back", DefaultPaging(), "?page=abc&limit=-2", domain.PageRequest{Number: 1, Size: DefaultLimit}},
		{"page zero", DefaultPaging(), "?page=0", domain.PageRequest{Number: 1, Size: DefaultLimit}},
		{"huge page clamped", DefaultPaging(), "?page=100000000000000000", domain.PageRequest{Number: MaxPage, Size: DefaultLimit}},
		{"page beyond int64 clamped", DefaultPaging(), "?page=99999999999999999999999", domain.PageRequest{Number: MaxPage, Size: DefaultLimit}},
		{"configured bounds", Paging{DefaultSize: 10, MaxSize: 20}, "?limit=50", domain.PageRequest{Number: 1, Size: 20}},
		{"zero bounds use built-ins", Paging{}, "", domain.PageRequest{Number: 1, Size: DefaultLimit}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := testContext(t, http.MethodGet, "/api/recipes"+tt.query, "")

			assert.Equal(t, tt.want, tt.paging.PageRequest(c))
		})
	}
}

func TestNewPaginated(t *testing.T) {
	t.Run("middle page links both ways", func(t *testing.T) {
		c, _ := testContext(t, http.MethodGet, "http://example.com/api/recipes?page=2&limit=2&tags=lunch", "")

		got := NewPaginated(c, domain.PageRequest{Number: 2, Size: 2}, 5, []int{3, 4})

		assert.Equal(t, int64(5), got.Count)
		assert.Equal(t, []int{3, 4}, got.Results)
		require.NotNil(t, got.Next)
		require.NotNil(t, got.Previous)
		assert.Equal(t, "http://example.com/api/recipes?limit=2&page=3&tags=lunch", *got.Next)
		assert.Equal(t, "http://example.com/api/recipes?limit=2&tags=lunch", *got.Previous)
	})

	t.Run("last page has no next", func(t *testing.T) {
		c, _ := testContext(t, http.MethodGet, "http://example.com/api/users?page=3&limit=2", "")

		got := NewPaginated(c, domain.PageRequest{Number: 3, Size: 2}, 5, []int{5})

		assert.Nil(t, got.Next)
		assert.NotNil(t, got.Previous)
	})

	t.Run("forwarded proto", func(t *testing.T) {
		c, _ := testContext(t, http.MethodGet, "http://example.com/api/users", "")
		c.Request.Header.Set("X-Forwarded-Proto", "https")

		got := NewPaginated(c, domain.PageRequest{Number: 1, Size: 1}, 2, []int{1})

		require.NotNil(t, got.Next)
		assert.True(t, strings.HasPrefix(*got.Next, "https://example.com/api/users?"))
	})

	t.Run("empty results encode as a list", func(t *testing.T) {
		c, _ := testContext(t, http.MethodGet, "/api/users", "")

		body, err := json.Marshal(NewPaginated[int](c, domain.PageRequest{Number: 1, Size: 6}, 0, nil))
		require.NoError(t, err)

		assert.JSONEq(t, `{"count":0,"next":null,"previous":null,"results":[]}`, string(body))
	})
}

func TestValidator(t *testing.T) {
	assert.Same(t, Validator(), Validator())
}

func TestValidate_Username(t *testing.T) {
	tests := []struct {
		username string
		wantErr  bool
	}{
		{"chef.bob", false},
		{"a+b@c-d_e", false},
		{"bad name", true},
		{"semi;colon", true},
	}

	for _, tt := range tests {
		t.Run(tt.username, func(t *testing.T) {
			req := RegisterRequest{
				Email:     "chef@example.com",
				Username:  tt.username,
				FirstName: "Bob",
				LastName:  "Chef",
				Password:  "correct-horse",
			}

			err := Validate(&req)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrValidation)
				assert.Contains(t, ValidationErrors(err), "username")
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestBindQueryAndValidate(t *testing.T) {
	c, _ := testContext(t, http.MethodGet,
		"/api/recipes?author=3&tags=lunch&tags=dinner&is_favorited=1&is_in_shopping_cart=false", "")

	var q RecipeQuery
	require.NoError(t, BindQueryAndValidate(c, &q))

	assert.Equal(t, int64(3), q.Author)
	assert.Equal(t, []string{"lunch", "dinner"}, q.Tags)
	assert.True(t, q.Favorited())
	assert.False(t, q.InShoppingCart())
}

func TestValidationMessage(t *testing.T) {
	type sample struct {
		Name  string `json:"name"  validate:"required"`
		Color string `json:"color" validate:"max=7"`
		Count int    `json:"count" validate:"gte=1"`
	}

	err := Validate(&sample{Color: "#1234567", Count: 0})
	require.Error(t, err)

	got := ValidationErrors(err)
	assert.Equal(t, "this field is required", got["name"])
	assert.Equal(t, "must be at most 7 characters", got["color"])
	assert.Equal(t, "must be greater than or equal to 1", got["count"])
}

func TestValidate_TagRequest(t *testing.T) {
	tests := []struct {
		name  string
		req   TagRequest
		field string
		msg   string
	}{
		{"valid", TagRequest{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"}, "", ""},
		{"named color", TagRequest{Name: "Lunch", Color: "green", Slug: "lunch"}, "color", "must be a hex color like #49B64E"},
		{"slug with space", TagRequest{Name: "Lunch", Color: "#49B64E", Slug: "lunch time"}, "slug", "may contain only letters, digits, '-' and '_'"},
		{"missing name", TagRequest{Color: "#49B64E", Slug: "x"}, "name", "this field is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(&tt.req)
			if tt.field == "" {
				require.NoError(t, err)
				return
			}

			require.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, tt.msg, ValidationErrors(err)[tt.field])
		})
	}
}

func TestValidationErrors_QueryFieldsUseFormNames(t *testing.T) {
	err := Validate(&RecipeQuery{Author: -1})
	require.Error(t, err)
	assert.Equal(t, "must be greater than or equal to 0", ValidationErrors(err)["author"])
}

func TestValidationErrors_NotAFieldError(t *testing.T) {
	assert.Empty(t, ValidationErrors(errors.New("boom")))
}

func dataURI(data []byte) string {
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
}

var (
	pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 24)...)
	gifBytes = append([]byte("GIF89a"), make([]byte, 24)...)
)

func TestDecodeImage(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		wantExt string
		wantErr string
	}{
		{name: "png", raw: dataURI(pngBytes), wantExt: ".png"},
		{name: "declared type is ignored", raw: dataURI(gifBytes), wantExt: ".gif"},
		{name: "not a data uri", raw: base64.StdEncoding.EncodeToString(pngBytes), wantErr: "image must be a base64 data URI"},
		{name: "missing payload", raw: "data:image/png;base64,", wantErr: "image must be a base64 data URI"},
		{name: "bad base64", raw: "data:image/png;base64,!!!", wantErr: "image is not valid base64"},
		{name: "not an image", raw: dataURI([]byte("plain text body")), wantErr: "unsupported image type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := DecodeImage(tt.raw)

			if tt.wantErr != "" {
				var verr *domain.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, "image", verr.Field)
				assert.Equal(t, tt.wantErr, verr.Message)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantExt, img.Extension)
			assert.True(t, strings.HasPrefix(img.ContentType, "image/"))
		})
	}
}

func TestRecipeRequest_Draft(t *testing.T) {
	t.Run("collections are validated before scalars", func(t *testing.T) {
		var req RecipeRequest
		require.NoError(t, json.Unmarshal([]byte(`{"tags":[1,1],"ingredients":[{"id":5,"amount":2}]}`), &req))

		draft, err := req.Draft()
		require.NoError(t, err)
		assert.Nil(t, draft.Image)

		var verr *domain.ValidationError
		require.ErrorAs(t, draft.Validate(), &verr)
		assert.Equal(t, domain.MsgDuplicateTags, verr.Message)
	})

	t.Run("full body", func(t *testing.T) {
		body := fmt.Sprintf(`{"name":"Pancakes","text":"Mix and fry","cooking_time":15,"image":%q,`+
			`"tags":[2],"ingredients":[{"id":5,"amount":3}]}`, dataURI(pngBytes))

		var req RecipeRequest
		require.NoError(t, json.Unmarshal([]byte(body), &req))

		draft, err := req.Draft()
		require.NoError(t, err)
		require.NoError(t, draft.Validate())
		assert.Equal(t, []domain.IngredientAmount{{IngredientID: 5, Amount: 3}}, draft.Ingredients)
		assert.Equal(t, ".png", draft.Image.Extension)
	})

	t.Run("broken image", func(t *testing.T) {
		req := RecipeRequest{Image: ptr("data:image/png;base64,%%%")}

		_, err := req.Draft()
		assert.True(t, domain.IsValidation(err))
	})
}

func TestRecipeRequest_Patch(t *testing.T) {
	var req RecipeRequest
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Renamed","ingredients":[{"id":1,"amount":1}]}`), &req))

	patch, err := req.Patch()
	require.NoError(t, err)

	assert.Equal(t, "Renamed", *patch.Name)
	assert.Nil(t, patch.TagIDs)
	assert.Nil(t, patch.Image)
	require.NotNil(t, patch.Ingredients)

	var verr *domain.ValidationError
	require.ErrorAs(t, patch.Validate(), &verr)
	assert.Equal(t, "tags", verr.Field)
}

func TestSubscriptionQuery_Limit(t *testing.T) {
	tests := []struct {
		raw     string
		want    int
		wantErr bool
	}{
		{"", -1, false},
		{"0", 0, false},
		{"3", 3, false},
		{"-1", 0, true},
		{"many", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := (&SubscriptionQuery{RecipesLimit: tt.raw}).Limit()
			if tt.wantErr {
				assert.True(t, domain.IsValidation(err))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewRecipeResponse(t *testing.T) {
	view := &domain.RecipeView{
		Recipe: domain.Recipe{
			ID:          9,
			Author:      domain.User{ID: 2, Username: "chef"},
			Name:        "Soup",
			Image:       "recipes/abc.png",
			CookingTime: 30,
			Tags:        []domain.Tag{{ID: 1, Name: "Lunch", Color: "#49B64E", Slug: "lunch"}},
			Ingredients: []domain.RecipeIngredient{
				{Ingredient: domain.Ingredient{ID: 4, Name: "salt", MeasurementUnit: "g"}, Amount: 2},
			},
		},
		AuthorSubscribed: true,
		IsFavorited:      true,
	}

	got := NewRecipeResponse(view, func(key string) string { return "http://cdn/" + key })

	assert.Equal(t, "http://cdn/recipes/abc.png", got.Image)
	assert.True(t, got.Author.IsSubscribed)
	assert.True(t, got.IsFavorited)
	assert.False(t, got.IsInShoppingCart)
	assert.Equal(t, []RecipeIngredientResponse{{ID: 4, Name: "salt", MeasurementUnit: "g", Amount: 2}}, got.Ingredients)

	short := NewShortRecipeResponse(&view.Recipe, nil)
	assert.Equal(t, ShortRecipeResponse{ID: 9, Name: "Soup", CookingTime: 30}, short)
}

func TestNewSubscriptionResponse(t *testing.T) {
	summary := &domain.AuthorSummary{
		Profile:      domain.Profile{User: domain.User{ID: 3, Username: "amy"}, IsSubscribed: true},
		Recipes:      []domain.Recipe{{ID: 1, Name: "Toast", Image: "a.png"}},
		RecipesCount: 4,
	}

	body, err := json.Marshal(NewSubscriptionResponse(summary, func(k string) string { return "/media/" + k }))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, "amy", got["username"])
	assert.Equal(t, true, got["is_subscribed"])
	assert.EqualValues(t, 4, got["recipes_count"])
	assert.Len(t, got["recipes"], 1)
}

func TestRespondShoppingList(t *testing.T) {
	c, w := testContext(t, http.MethodGet, "/api/recipes/download_shopping_cart", "")

	RespondShoppingList(c, domain.BuildShoppingList([]domain.IngredientLine{{Name: "flour", Unit: "g", Amount: 2}}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="shopping_list.txt"`, w.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain"))
	assert.Contains(t, w.Body.String(), "- flour (g): 2")
}

func ptr[T any](v T) *T { return &v }
