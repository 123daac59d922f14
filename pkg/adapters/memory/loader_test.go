package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/questflow/internal/testutils"
	"github.com/aretw0/questflow/pkg/adapters/memory"
	"github.com/aretw0/questflow/pkg/domain"
	contract "github.com/aretw0/questflow/pkg/ports/tests"
)

func TestInMemoryLoader_Contract(t *testing.T) {
	flow := testutils.StacksFlow()
	contract.FlowLoaderContractTest(t, memory.NewLoader(flow), flow)
}

func TestInMemoryLoader_Empty(t *testing.T) {
	_, err := memory.NewLoader(nil).LoadFlow(context.Background())
	assert.ErrorIs(t, err, domain.ErrFlowNotLoaded)
}
