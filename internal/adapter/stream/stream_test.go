package stream

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"cargotrace-backend/internal/adapter/repository/mysql"
	"cargotrace-backend/internal/testutil/testdb"
	transferUC "cargotrace-backend/internal/usecase/transfer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/twmb/franz-go/pkg/kgo"
)

func payload(t *testing.T, txHash string, logIndex int64) []byte {
	t.Helper()
	b, err := json.Marshal(transferUC.IngestInput{
		Network:     "sepolia",
		Contract:    "0x1111111111111111111111111111111111111111",
		TxHash:      txHash,
		LogIndex:    logIndex,
		BlockNumber: 10,
		TokenID:     "3",
		From:        "0x0000000000000000000000000000000000000000",
		To:          "0x2222222222222222222222222222222222222222",
	})
	require.NoError(t, err)
	return b
}

func newTransfers(t *testing.T) *transferUC.Usecase {
	t.Helper()
	return transferUC.NewUsecase(mysql.NewTransferRepository(testdb.Open(t)), nil)
}

func TestHandler_StoresAndSkips(t *testing.T) {
	transfers := newTransfers(t)
	h := NewHandler(transfers, nil)
	ctx := context.Background()
	good := "0x" + strings.Repeat("b", 64)

	require.NoError(t, h.Handle(ctx, Message{Topic: "t", Value: payload(t, good, 0)}))
	require.NoError(t, h.Handle(ctx, Message{Topic: "t", Value: payload(t, good, 0)}), "redelivery is accepted")
	require.NoError(t, h.Handle(ctx, Message{Topic: "t", Value: []byte("{broken")}), "undecodable payload is skipped")
	require.NoError(t, h.Handle(ctx, Message{Topic: "t", Value: payload(t, "0xnothex", 0)}), "invalid event is skipped")

	all, err := transfers.List(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

type failingIngester struct{ err error }

func (f failingIngester) Ingest(context.Context, transferUC.IngestInput) (*transferUC.EventDTO, bool, error) {
	return nil, false, f.err
}

func TestHandler_InfrastructureErrorIsReturned(t *testing.T) {
	boom := errors.New("db down")
	h := NewHandler(failingIngester{err: boom}, nil)
	err := h.Handle(context.Background(), Message{Value: payload(t, "0x"+strings.Repeat("c", 64), 0)})
	assert.ErrorIs(t, err, boom)
}

type fakePoller struct {
	mu        sync.Mutex
	batches   []kgo.Fetches
	committed []*kgo.Record
	closed    bool
	cancel    context.CancelFunc
}

func (p *fakePoller) PollFetches(ctx context.Context) kgo.Fetches {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.batches) == 0 {
		p.cancel()
		return kgo.Fetches{}
	}
	f := p.batches[0]
	p.batches = p.batches[1:]
	return f
}

func (p *fakePoller) CommitRecords(_ context.Context, rs ...*kgo.Record) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.committed = append(p.committed, rs...)
	return nil
}

func (p *fakePoller) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
}

func fetchOf(records ...*kgo.Record) kgo.Fetches {
	return kgo.Fetches{{Topics: []kgo.FetchTopic{{
		Topic:      "nft-transfers",
		Partitions: []kgo.FetchPartition{{Partition: 0, Records: records}},
	}}}}
}

func TestConsumer_CommitsHandledRecords(t *testing.T) {
	transfers := newTransfers(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r1 := &kgo.Record{Topic: "nft-transfers", Offset: 0, Value: payload(t, "0x"+strings.Repeat("d", 64), 0)}
	r2 := &kgo.Record{Topic: "nft-transfers", Offset: 1, Value: []byte("junk")}
	r3 := &kgo.Record{Topic: "nft-transfers", Offset: 2, Value: payload(t, "0x"+strings.Repeat("d", 64), 1)}

	p := &fakePoller{batches: []kgo.Fetches{fetchOf(r1, r2), fetchOf(r3)}, cancel: cancel}
	c := NewConsumer(p, NewHandler(transfers, nil), nil)

	require.NoError(t, c.Run(ctx))

	assert.True(t, p.closed)
	assert.Equal(t, []*kgo.Record{r1, r2, r3}, p.committed)

	all, err := transfers.List(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestConsumer_LeavesFailedRecordsUncommitted(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	r := &kgo.Record{Topic: "nft-transfers", Value: payload(t, "0x"+strings.Repeat("e", 64), 0)}
	p := &fakePoller{batches: []kgo.Fetches{fetchOf(r)}, cancel: cancel}
	c := NewConsumer(p, NewHandler(failingIngester{err: errors.New("db down")}, nil), nil)

	require.NoError(t, c.Run(ctx))
	assert.Empty(t, p.committed)
}

func TestNewKafkaClient_RequiresBrokersAndTopic(t *testing.T) {
	_, err := NewKafkaClient(ConsumerConfig{Topic: "t"})
	assert.Error(t, err)
	_, err = NewKafkaClient(ConsumerConfig{Brokers: []string{"localhost:9092"}})
	assert.Error(t, err)
}
