package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skyf0l/basecracker/pkg/cache"
	"github.com/skyf0l/basecracker/pkg/cracker"
	errs "github.com/skyf0l/basecracker/pkg/errors"
	"github.com/skyf0l/basecracker/pkg/pipeline"
)

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
	fail error
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return nil, false, m.fail
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail != nil {
		return m.fail
	}
	m.data[key] = data
	m.sets++
	return nil
}

func (m *memCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

func (m *memCache) Close() error { return nil }

const layered = "596d467a5a574e7959574e725a58493d"

func TestEncodeDecode(t *testing.T) {
	ctx := context.Background()
	svc := New(nil, newMemCache(), nil, nil)

	enc, info, err := svc.Encode(ctx, "hi", []string{"64", "16"})
	require.NoError(t, err)
	assert.False(t, info.Hit)
	assert.Equal(t, "61476b3d", enc.Value)
	assert.Equal(t, []string{"base64", "base16"}, enc.Schemes())

	dec, _, err := svc.Decode(ctx, enc.Value, []string{"hex", "b64"})
	require.NoError(t, err)
	assert.Equal(t, "hi", dec.Value)
	assert.Equal(t, pipeline.Decode, dec.Direction)
}

func TestEncodeCached(t *testing.T) {
	ctx := context.Background()
	mc := newMemCache()
	svc := New(nil, mc, nil, nil)

	first, info, err := svc.Encode(ctx, "abc", []string{"64"})
	require.NoError(t, err)
	assert.False(t, info.Hit)
	assert.Equal(t, 1, mc.sets)

	second, info, err := svc.Encode(ctx, "abc", []string{"64"})
	require.NoError(t, err)
	assert.True(t, info.Hit)
	assert.Equal(t, first, second)
	assert.Equal(t, "YWJj", second.Value)
}

func TestEncodeSkipsUnknown(t *testing.T) {
	svc := New(nil, nil, nil, nil)
	res, _, err := svc.Encode(context.Background(), "hi", []string{"nonsense", "16"})
	require.NoError(t, err)
	assert.Equal(t, "6869", res.Value)
	require.Len(t, res.Skipped, 1)
	assert.Equal(t, "nonsense", res.Skipped[0].Name)
}

func TestDecodeFailure(t *testing.T) {
	mc := newMemCache()
	svc := New(nil, mc, nil, nil)

	res, _, err := svc.Decode(context.Background(), "not-valid-base64!", []string{"64"})
	require.Error(t, err)
	assert.Nil(t, res)

	var se *pipeline.StepError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 0, se.Index)
	assert.Equal(t, "base64", se.Scheme)
	assert.True(t, errs.IsDecodeFailure(err))
	assert.Zero(t, mc.sets, "failures must not be cached")
}

func TestInvalidInput(t *testing.T) {
	svc := New(nil, nil, nil, nil)
	ctx := context.Background()

	_, _, err := svc.Encode(ctx, "hi", []string{"6 4"})
	assert.Equal(t, errs.ErrCodeInvalidInput, errs.GetCode(err))

	big := make([]byte, errs.MaxInputBytes+1)
	_, _, err = svc.Crack(ctx, string(big))
	assert.Equal(t, errs.ErrCodeInvalidInput, errs.GetCode(err))

	_, _, err = svc.CrackWith(ctx, CrackRequest{Input: "abc", Options: cracker.Options{Threshold: 2}})
	assert.Equal(t, errs.ErrCodeInvalidConfig, errs.GetCode(err))
}

func TestCrackCached(t *testing.T) {
	ctx := context.Background()
	mc := newMemCache()
	svc := New(nil, mc, nil, nil)

	rep, info, err := svc.Crack(ctx, layered)
	require.NoError(t, err)
	assert.False(t, info.Hit)
	assert.Equal(t, cracker.StatusFound, rep.Status)
	require.NotNil(t, rep.Tree)

	again, info, err := svc.Crack(ctx, layered)
	require.NoError(t, err)
	assert.True(t, info.Hit)
	assert.Equal(t, rep.ID, again.ID)
	assert.Equal(t, rep.Status, again.Status)
	assert.Equal(t, rep.Results, again.Results)
	assert.Nil(t, again.Tree, "tree is not cached")

	fresh, info, err := svc.CrackWith(ctx, CrackRequest{Input: layered, Refresh: true})
	require.NoError(t, err)
	assert.False(t, info.Hit)
	assert.NotEqual(t, rep.ID, fresh.ID)

	// Different bounds are a different key.
	_, info, err = svc.CrackWith(ctx, CrackRequest{Input: layered, Options: cracker.Options{MaxDepth: 1}})
	require.NoError(t, err)
	assert.False(t, info.Hit)
}

func TestCrackDefaults(t *testing.T) {
	svc := New(nil, nil, nil, nil)
	svc.CrackOptions = cracker.Options{MaxDepth: 1}

	rep, _, err := svc.Crack(context.Background(), layered)
	require.NoError(t, err)
	assert.Equal(t, cracker.StatusTruncated, rep.Status)

	rep, _, err = svc.CrackWith(context.Background(), CrackRequest{Input: layered, Options: cracker.Options{MaxDepth: 4}})
	require.NoError(t, err)
	assert.Equal(t, cracker.StatusFound, rep.Status)
}

func TestCrackEmptyNotCached(t *testing.T) {
	mc := newMemCache()
	svc := New(nil, mc, nil, nil)
	rep, _, err := svc.Crack(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, cracker.StatusEmpty, rep.Status)
	assert.Zero(t, mc.sets)
}

func TestCacheFailureIsMiss(t *testing.T) {
	mc := newMemCache()
	mc.fail = errors.New("disk on fire")
	svc := New(nil, mc, nil, nil)

	res, info, err := svc.Encode(context.Background(), "abc", []string{"64"})
	require.NoError(t, err)
	assert.False(t, info.Hit)
	assert.Equal(t, "YWJj", res.Value)
}

func TestScopedKeys(t *testing.T) {
	ctx := context.Background()
	mc := newMemCache()
	a := New(nil, mc, cache.NewScopedKeyer(nil, "a:"), nil)
	b := New(nil, mc, cache.NewScopedKeyer(nil, "b:"), nil)

	_, _, err := a.Encode(ctx, "abc", []string{"64"})
	require.NoError(t, err)
	_, info, err := b.Encode(ctx, "abc", []string{"64"})
	require.NoError(t, err)
	assert.False(t, info.Hit, "scopes must not share entries")
}

func TestDecodeBinaryCachedVerbatim(t *testing.T) {
	ctx := context.Background()
	fc, err := cache.NewFileCache(t.TempDir())
	require.NoError(t, err)
	svc := New(nil, fc, nil, nil)

	first, info, err := svc.Decode(ctx, "/w==", []string{"64"})
	require.NoError(t, err)
	require.False(t, info.Hit)
	assert.Equal(t, "\xff", first.Value)

	second, info, err := svc.Decode(ctx, "/w==", []string{"64"})
	require.NoError(t, err)
	require.True(t, info.Hit)
	assert.Equal(t, "\xff", second.Value)
	assert.Equal(t, first.Steps, second.Steps)
}

func TestReportEntryKeepsBytes(t *testing.T) {
	rep := &cracker.Report{
		ID:     "r1",
		Input:  "\xfe\x00",
		Status: cracker.StatusFound,
		Results: []cracker.Result{{
			Input:     "\xfe\x00",
			Schemes:   []string{"base16"},
			IDs:       []string{"16"},
			Plaintext: "ok\x80",
			Steps:     []pipeline.Step{{Scheme: "base16", ID: "16", Text: "ok\x80"}},
		}},
		Stats: cracker.Stats{Explored: 3},
	}

	data, err := json.Marshal(newReportEntry(rep))
	require.NoError(t, err)
	var e reportEntry
	require.NoError(t, json.Unmarshal(data, &e))
	assert.Equal(t, rep, e.report())
}
