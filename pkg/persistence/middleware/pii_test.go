package middleware_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/questflow/pkg/adapters/memory"
	"github.com/aretw0/questflow/pkg/domain"
	"github.com/aretw0/questflow/pkg/persistence/middleware"
)

func TestPIIMiddleware_Masking(t *testing.T) {
	underlying := memory.NewStore()
	store := middleware.NewPIIMiddleware(middleware.DefaultPIIPatterns)(underlying)
	ctx := context.Background()

	sess := domain.NewSession("pii", domain.Answers{
		"web_lang":            domain.Multi("ts", "other"),
		"web_lang_other_text": domain.Single("my email is a@b.c"),
	})
	require.NoError(t, store.Save(ctx, "pii", sess))

	assert.True(t, sess.Answers.Get("web_lang_other_text").StrictEqual(domain.Single("my email is a@b.c")),
		"caller's session must not be modified")

	stored, err := underlying.Load(ctx, "pii")
	require.NoError(t, err)
	assert.True(t, stored.Answers.Get("web_lang_other_text").StrictEqual(domain.Single(middleware.Mask)))
	assert.True(t, stored.Answers.Get("web_lang").Includes("other"))
}

func TestChain_Order(t *testing.T) {
	underlying := memory.NewStore()
	key := generateKey(t)
	ctx := context.Background()

	// PII runs first, so the sealed payload already holds the mask.
	store := middleware.Chain(underlying,
		middleware.NewPIIMiddleware([]string{"^secret$"}),
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key}),
	)

	require.NoError(t, store.Save(ctx, "c", domain.NewSession("c", domain.Answers{"secret": domain.Single("x")})))

	loaded, err := store.Load(ctx, "c")
	require.NoError(t, err)
	assert.True(t, loaded.Answers.Get("secret").StrictEqual(domain.Single(middleware.Mask)))
}
