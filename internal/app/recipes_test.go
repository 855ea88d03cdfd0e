package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/foodgram/internal/domain"
)

func TestRecipeService_Create(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	author := s.seed.User(t, "chef")
	breakfast := s.seed.Tag(t, "breakfast")
	egg := s.seed.Ingredient(t, "egg", "pc")
	milk := s.seed.Ingredient(t, "milk", "ml")

	view := s.publish(t, author, "omelette", []domain.Tag{breakfast},
		domain.IngredientAmount{IngredientID: egg.ID, Amount: 3},
		domain.IngredientAmount{IngredientID: milk.ID, Amount: 50},
	)

	assert.NotZero(t, view.ID)
	assert.Equal(t, author.ID, view.Author.ID)
	assert.Equal(t, "omelette", view.Name)
	assert.True(t, strings.HasPrefix(view.Image, "recipes/"))
	assert.True(t, strings.HasSuffix(view.Image, ".png"))
	assert.Equal(t, []int64{breakfast.ID}, view.TagIDs())
	assert.ElementsMatch(t, []domain.IngredientAmount{
		{IngredientID: egg.ID, Amount: 3},
		{IngredientID: milk.ID, Amount: 50},
	}, view.IngredientAmounts())
	assert.False(t, view.IsFavorited)
	assert.False(t, view.IsInShoppingCart)
	assert.False(t, view.AuthorSubscribed)

	s.images.AssertCalled(t, "Save", mock.Anything, view.Image, mock.Anything, "image/png")

	got, err := s.recipes.Get(ctx, anonymous(), view.ID)
	require.NoError(t, err)
	assert.Equal(t, view.Image, got.Image)
}

func TestRecipeService_Create_Rejected(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	author := s.seed.User(t, "chef")
	tag := s.seed.Tag(t, "lunch")
	salt := s.seed.Ingredient(t, "salt", "g")

	valid := func() domain.RecipeDraft {
		return domain.RecipeDraft{
			Name:        "soup",
			Text:        "boil",
			CookingTime: 20,
			Image:       pngImage(),
			TagIDs:      []int64{tag.ID},
			Ingredients: []domain.IngredientAmount{{IngredientID: salt.ID, Amount: 5}},
		}
	}

	tests := []struct {
		name     string
		mutate   func(d *domain.RecipeDraft)
		errCheck func(error) bool
		message  string
	}{
		{"no tags", func(d *domain.RecipeDraft) { d.TagIDs = nil }, domain.IsValidation, domain.MsgTagsRequired},
		{"duplicate tags", func(d *domain.RecipeDraft) { d.TagIDs = []int64{tag.ID, tag.ID} }, domain.IsValidation, domain.MsgDuplicateTags},
		{"no ingredients", func(d *domain.RecipeDraft) { d.Ingredients = nil }, domain.IsValidation, domain.MsgIngredientsRequired},
		{"amount zero", func(d *domain.RecipeDraft) { d.Ingredients[0].Amount = 0 }, domain.IsValidation, domain.MsgAmountTooSmall},
		{"amount too large", func(d *domain.RecipeDraft) { d.Ingredients[0].Amount = 101 }, domain.IsValidation, domain.MsgAmountTooLarge},
		{"cooking time zero", func(d *domain.RecipeDraft) { d.CookingTime = 0 }, domain.IsValidation, ""},
		{"missing image", func(d *domain.RecipeDraft) { d.Image = nil }, domain.IsValidation, "image is required"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := valid()
			tt.mutate(&draft)

			_, err := s.recipes.Create(ctx, as(author), draft)
			require.Error(t, err)
			assert.True(t, tt.errCheck(err), err.Error())

			if tt.message != "" {
				var verr *domain.ValidationError
				require.True(t, errors.As(err, &verr))
				assert.Equal(t, tt.message, verr.Message)
			}
		})
	}

	t.Run("anonymous", func(t *testing.T) {
		_, err := s.recipes.Create(ctx, anonymous(), valid())
		assert.True(t, domain.IsUnauthenticated(err))
	})

	s.images.AssertNotCalled(t, "Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything)

	n, err := s.repos.Recipes.CountByAuthor(ctx, author.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRecipeService_Create_UnknownIngredientLeavesNothingBehind(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	author := s.seed.User(t, "chef")
	tag := s.seed.Tag(t, "lunch")

	var savedKey string
	s.images.On("Save", mock.Anything, mock.Anything, mock.Anything, "image/png").
		Run(func(args mock.Arguments) { savedKey = args.String(1) }).
		Return(nil).Once()
	s.images.On("Delete", mock.Anything, mock.Anything).Return(nil).Once()

	_, err := s.recipes.Create(ctx, as(author), domain.RecipeDraft{
		Name:        "mystery",
		Text:        "?",
		CookingTime: 5,
		Image:       pngImage(),
		TagIDs:      []int64{tag.ID},
		Ingredients: []domain.IngredientAmount{{IngredientID: 9999, Amount: 1}},
	})
	require.Error(t, err)

	var verr *domain.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, domain.MsgIngredientNotFound, verr.Message)

	s.images.AssertCalled(t, "Delete", mock.Anything, savedKey)

	n, err := s.repos.Recipes.CountByAuthor(ctx, author.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRecipeService_Create_ImageStoreFailure(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	author := s.seed.User(t, "chef")
	tag := s.seed.Tag(t, "lunch")
	salt := s.seed.Ingredient(t, "salt", "g")

	s.images.On("Save", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(domain.NewUnavailableError("image-store", "disk full"))

	_, err := s.recipes.Create(ctx, as(author), domain.RecipeDraft{
		Name:        "soup",
		Text:        "boil",
		CookingTime: 20,
		Image:       pngImage(),
		TagIDs:      []int64{tag.ID},
		Ingredients: []domain.IngredientAmount{{IngredientID: salt.ID, Amount: 5}},
	})
	assert.True(t, domain.IsUnavailable(err))
	s.images.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)

	n, err := s.repos.Recipes.CountByAuthor(ctx, author.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestRecipeService_Update(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	author := s.seed.User(t, "chef")
	other := s.seed.User(t, "critic")
	lunch := s.seed.Tag(t, "lunch")
	dinner := s.seed.Tag(t, "dinner")
	salt := s.seed.Ingredient(t, "salt", "g")
	rice := s.seed.Ingredient(t, "rice", "g")

	original := s.publish(t, author, "risotto", []domain.Tag{lunch},
		domain.IngredientAmount{IngredientID: rice.ID, Amount: 100})

	tags := []int64{dinner.ID}
	items := []domain.IngredientAmount{{IngredientID: rice.ID, Amount: 80}, {IngredientID: salt.ID, Amount: 2}}
	name := "mushroom risotto"

	t.Run("non-owner is forbidden", func(t *testing.T) {
		_, err := s.recipes.Update(ctx, as(other), original.ID, domain.RecipePatch{TagIDs: &tags, Ingredients: &items})
		assert.True(t, domain.IsForbidden(err))
	})

	t.Run("anonymous is unauthenticated", func(t *testing.T) {
		_, err := s.recipes.Update(ctx, anonymous(), original.ID, domain.RecipePatch{TagIDs: &tags, Ingredients: &items})
		assert.True(t, domain.IsUnauthenticated(err))
	})

	t.Run("missing recipe", func(t *testing.T) {
		_, err := s.recipes.Update(ctx, as(author), 9999, domain.RecipePatch{TagIDs: &tags, Ingredients: &items})
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("tags key required", func(t *testing.T) {
		_, err := s.recipes.Update(ctx, as(author), original.ID, domain.RecipePatch{Ingredients: &items})
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("ingredients key required", func(t *testing.T) {
		_, err := s.recipes.Update(ctx, as(author), original.ID, domain.RecipePatch{TagIDs: &tags})
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("unknown tag rolls back", func(t *testing.T) {
		unknown := []int64{9999}
		_, err := s.recipes.Update(ctx, as(author), original.ID, domain.RecipePatch{
			Name:        &name,
			TagIDs:      &unknown,
			Ingredients: &items,
		})
		require.True(t, domain.IsValidation(err))

		got, err := s.recipes.Get(ctx, as(author), original.ID)
		require.NoError(t, err)
		assert.Equal(t, "risotto", got.Name)
		assert.Equal(t, []int64{lunch.ID}, got.TagIDs())
	})

	t.Run("owner replaces links and image", func(t *testing.T) {
		s.images.On("Delete", mock.Anything, original.Image).Return(nil).Once()

		updated, err := s.recipes.Update(ctx, as(author), original.ID, domain.RecipePatch{
			Name:        &name,
			Image:       pngImage(),
			TagIDs:      &tags,
			Ingredients: &items,
		})
		require.NoError(t, err)

		assert.Equal(t, name, updated.Name)
		assert.Equal(t, "mix and bake", updated.Text)
		assert.Equal(t, []int64{dinner.ID}, updated.TagIDs())
		assert.ElementsMatch(t, items, updated.IngredientAmounts())
		assert.NotEqual(t, original.Image, updated.Image)

		s.images.AssertCalled(t, "Delete", mock.Anything, original.Image)
	})
}

func TestRecipeService_Delete(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	author := s.seed.User(t, "chef")
	other := s.seed.User(t, "critic")
	tag := s.seed.Tag(t, "lunch")
	salt := s.seed.Ingredient(t, "salt", "g")

	view := s.publish(t, author, "soup", []domain.Tag{tag}, domain.IngredientAmount{IngredientID: salt.ID, Amount: 1})

	_, err := s.relations.Add(ctx, as(other), domain.Favorites, view.ID)
	require.NoError(t, err)

	assert.True(t, domain.IsForbidden(s.recipes.Delete(ctx, as(other), view.ID)))
	assert.True(t, domain.IsUnauthenticated(s.recipes.Delete(ctx, anonymous(), view.ID)))
	assert.True(t, domain.IsNotFound(s.recipes.Delete(ctx, as(author), 9999)))

	s.images.On("Delete", mock.Anything, view.Image).Return(nil).Once()
	require.NoError(t, s.recipes.Delete(ctx, as(author), view.ID))
	s.images.AssertExpectations(t)

	_, err = s.recipes.Get(ctx, anonymous(), view.ID)
	assert.True(t, domain.IsNotFound(err))

	page, err := s.recipes.List(ctx, as(other), RecipeQuery{FavoritedOnly: true})
	require.NoError(t, err)
	assert.Zero(t, page.Total)
}

func TestRecipeService_List(t *testing.T) {
	ctx := context.Background()
	s := newServices(t)

	alice := s.seed.User(t, "alice")
	bob := s.seed.User(t, "bob")
	breakfast := s.seed.Tag(t, "breakfast")
	dinner := s.seed.Tag(t, "dinner")
	egg := s.seed.Ingredient(t, "egg", "pc")
	one := domain.IngredientAmount{IngredientID: egg.ID, Amount: 1}

	pancakes := s.publish(t, alice, "pancakes", []domain.Tag{breakfast}, one)
	stew := s.publish(t, alice, "stew", []domain.Tag{dinner}, one)
	s.publish(t, bob, "toast", []domain.Tag{breakfast}, one)

	_, err := s.relations.Add(ctx, as(bob), domain.Favorites, pancakes.ID)
	require.NoError(t, err)
	_, err = s.relations.Add(ctx, as(bob), domain.ShoppingCart, stew.ID)
	require.NoError(t, err)
	_, err = s.subscriptions.Subscribe(ctx, as(bob), alice.ID, -1)
	require.NoError(t, err)

	names := func(page domain.Page[domain.RecipeView]) []string {
		out := make([]string, 0, len(page.Items))
		for _, r := range page.Items {
			out = append(out, r.Name)
		}
		return out
	}

	t.Run("viewer flags", func(t *testing.T) {
		page, err := s.recipes.List(ctx, as(bob), RecipeQuery{})
		require.NoError(t, err)
		require.Equal(t, int64(3), page.Total)

		byName := map[string]domain.RecipeView{}
		for _, r := range page.Items {
			byName[r.Name] = r
		}

		assert.True(t, byName["pancakes"].IsFavorited)
		assert.False(t, byName["pancakes"].IsInShoppingCart)
		assert.True(t, byName["stew"].IsInShoppingCart)
		assert.True(t, byName["stew"].AuthorSubscribed)
		assert.False(t, byName["toast"].AuthorSubscribed)
	})

	t.Run("anonymous sees no flags", func(t *testing.T) {
		page, err := s.recipes.List(ctx, anonymous(), RecipeQuery{})
		require.NoError(t, err)

		for _, r := range page.Items {
			assert.False(t, r.IsFavorited || r.IsInShoppingCart || r.AuthorSubscribed, r.Name)
		}
	})

	t.Run("filters", func(t *testing.T) {
		tests := []struct {
			name   string
			viewer int64
			query  RecipeQuery
			want   []string
		}{
			{"author", 0, RecipeQuery{AuthorID: alice.ID}, []string{"pancakes", "stew"}},
			{"tag", 0, RecipeQuery{TagSlugs: []string{"breakfast"}}, []string{"pancakes", "toast"}},
			{"favorited", bob.ID, RecipeQuery{FavoritedOnly: true}, []string{"pancakes"}},
			{"in cart", bob.ID, RecipeQuery{InCartOnly: true}, []string{"stew"}},
			{"favorited anonymous", 0, RecipeQuery{FavoritedOnly: true}, []string{}},
			{"in cart anonymous", 0, RecipeQuery{InCartOnly: true}, []string{}},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				rc := anonymous()
				if tt.viewer != 0 {
					rc = as(domain.User{ID: tt.viewer})
				}

				page, err := s.recipes.List(ctx, rc, tt.query)
				require.NoError(t, err)
				assert.Equal(t, tt.want, names(page))
			})
		}
	})
}
