package cli_test

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/questflow/internal/cli"
	"github.com/aretw0/questflow/internal/logging"
	"github.com/aretw0/questflow/internal/testutils"
	"github.com/aretw0/questflow/pkg/domain"
	"github.com/aretw0/questflow/pkg/persistence/middleware"
)

func encodedKey(t *testing.T) string {
	t.Helper()
	key := make([]byte, 32)
	_, err := rand.Read(key)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(key)
}

func TestNewLogger(t *testing.T) {
	logger, err := cli.NewLogger(cli.Options{})
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = cli.NewLogger(cli.Options{LogLevel: "loud"})
	assert.Error(t, err)
}

func TestNewEngine(t *testing.T) {
	_, err := cli.NewEngine(cli.Options{}, logging.NewNop())
	assert.ErrorContains(t, err, cli.EnvFlow)

	path := testutils.WriteFile(t, "stacks.yaml", testutils.StacksFlowYAML)
	eng, err := cli.NewEngine(cli.Options{FlowPath: path}, logging.NewNop())
	require.NoError(t, err)

	state, err := eng.Progress(context.Background(), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "q_stacks", state.CurrentNodeID)
}

func TestNewPersistence_File(t *testing.T) {
	ctx := context.Background()
	p, err := cli.NewPersistence(ctx, cli.Options{SessionDir: t.TempDir()}, logging.NewNop())
	require.NoError(t, err)
	defer p.Close()

	assert.Nil(t, p.Locker)
	require.NoError(t, p.Store.Save(ctx, "s1", domain.NewSession("s1", nil)))

	ids, err := p.Store.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"s1"}, ids)
}

func TestNewPersistence_EncryptedAndMasked(t *testing.T) {
	ctx := context.Background()
	mask := true
	opts := cli.Options{Store: cli.StoreMemory, EncryptionKey: encodedKey(t), MaskPII: &mask}

	p, err := cli.NewPersistence(ctx, opts, logging.NewNop())
	require.NoError(t, err)

	sess := domain.NewSession("s1", domain.Answers{
		"web_lang":            domain.Multi("other"),
		"web_lang_other_text": domain.Single("Elm"),
	})
	require.NoError(t, p.Store.Save(ctx, "s1", sess))

	loaded, err := p.Store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, loaded.Answers.Get("web_lang").Includes("other"))
	assert.Equal(t, middleware.Mask, loaded.Answers.Get("web_lang_other_text").Text())
}

func TestNewPersistence_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	p, err := cli.NewPersistence(ctx, cli.Options{RedisAddr: mr.Addr()}, logging.NewNop())
	require.NoError(t, err)
	defer p.Close()

	require.NotNil(t, p.Locker)
	require.NoError(t, p.Store.Save(ctx, "s1", domain.NewSession("s1", nil)))
	_, err = p.Store.Load(ctx, "s1")
	assert.NoError(t, err)
}

func TestNewPersistence_Errors(t *testing.T) {
	ctx := context.Background()
	logger := logging.NewNop()

	_, err := cli.NewPersistence(ctx, cli.Options{Store: "etcd"}, logger)
	assert.ErrorContains(t, err, "unknown store")

	_, err = cli.NewPersistence(ctx, cli.Options{Store: cli.StoreRedis}, logger)
	assert.ErrorContains(t, err, cli.EnvRedisAddr)

	_, err = cli.NewPersistence(ctx, cli.Options{Store: cli.StoreMemory, EncryptionKey: "c2hvcnQ="}, logger)
	assert.Error(t, err)
}

func TestNewSessionManager_Prunes(t *testing.T) {
	ctx := context.Background()
	path := testutils.WriteFile(t, "stacks.yaml", testutils.StacksFlowYAML)
	logger := logging.NewNop()

	eng, err := cli.NewEngine(cli.Options{FlowPath: path}, logger)
	require.NoError(t, err)
	p, err := cli.NewPersistence(ctx, cli.Options{Store: cli.StoreMemory}, logger)
	require.NoError(t, err)

	mgr := cli.NewSessionManager(p, eng, logger)
	sess, err := mgr.Create(ctx, domain.Answers{
		"stacks":      domain.Multi("web"),
		"server_lang": domain.Multi("go"),
	}, nil)
	require.NoError(t, err)
	assert.NotContains(t, sess.Answers, "server_lang")
}
