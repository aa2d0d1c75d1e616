package graphdb

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryClient_QueueBeforeResponder(t *testing.T) {
	ctx := context.Background()
	client := NewMemoryClient().WithResponder(func(stmt Statement) (Result, error) {
		return Result{Records: []Record{{"query": stmt.Query}}}, nil
	})
	client.Enqueue(ReadAccess, Result{Records: []Record{{"queued": true}}})

	first, err := client.ExecuteRead(ctx, "RETURN 1", map[string]any{"x": 1})
	require.NoError(t, err)
	assert.Equal(t, true, first.Records[0]["queued"])

	second, err := client.ExecuteRead(ctx, "RETURN 2", nil)
	require.NoError(t, err)
	assert.Equal(t, "RETURN 2", second.Records[0]["query"])

	_, err = client.ExecuteWrite(ctx, "CREATE ()", nil)
	require.NoError(t, err)

	assert.Len(t, client.Statements(), 3)
	assert.Len(t, client.Reads(), 2)
	require.Len(t, client.Writes(), 1)
	assert.Equal(t, "CREATE ()", client.Writes()[0].Query)
}

func TestMemoryClient_ParamsAreCopied(t *testing.T) {
	client := NewMemoryClient()
	params := map[string]any{"userId": "ana"}
	_, err := client.ExecuteWrite(context.Background(), "MERGE", params)
	require.NoError(t, err)

	params["userId"] = "mutated"
	assert.Equal(t, "ana", client.Writes()[0].Params["userId"])
}

func TestMemoryClient_Errors(t *testing.T) {
	boom := errors.New("boom")
	client := NewMemoryClient().WithError(boom).WithConnectivityError(boom)

	_, err := client.ExecuteRead(context.Background(), "RETURN 1", nil)
	require.ErrorIs(t, err, boom)
	require.ErrorIs(t, client.VerifyConnectivity(context.Background()), boom)
	assert.Empty(t, client.Statements())

	require.NoError(t, client.Close(context.Background()))
	assert.True(t, client.Closed())
}
