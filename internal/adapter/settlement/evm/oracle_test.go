package evm

import (
	"context"
	"errors"
	"io"
	"math/big"
	"sync"
	"testing"
	"time"

	"presale-backend/internal/core/domain"
	"presale-backend/internal/core/ports"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testKeyHex   = "4c0883a69102937d6231471b5dbb6204fe5129617082792ae468d01a3f362318"
	presaleAddr  = "0x3333333333333333333333333333333333333333"
	tokenAddr    = "0x4444444444444444444444444444444444444444"
	buyerAddr    = "0x1111111111111111111111111111111111111111"
	testChainID  = 56
	testGasLimit = 250000
)

type jsonRPCError struct {
	code int
	msg  string
}

func (e *jsonRPCError) Error() string  { return e.msg }
func (e *jsonRPCError) ErrorCode() int { return e.code }

type revertError struct{ jsonRPCError }

func (e *revertError) ErrorData() interface{} { return "0x08c379a0" }

type fakeBackend struct {
	mu       sync.Mutex
	callErr  error
	sendErr  error
	priceErr error
	nonce    uint64
	sent     []*types.Transaction
	receipts map[common.Hash]*types.Receipt
	polls    int
}

func (b *fakeBackend) CallContract(context.Context, ethereum.CallMsg, *big.Int) ([]byte, error) {
	return nil, b.callErr
}

func (b *fakeBackend) EstimateGas(context.Context, ethereum.CallMsg) (uint64, error) {
	return 100000, b.callErr
}

func (b *fakeBackend) PendingNonceAt(context.Context, common.Address) (uint64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.nonce, nil
}

func (b *fakeBackend) SuggestGasPrice(context.Context) (*big.Int, error) {
	if b.priceErr != nil {
		return nil, b.priceErr
	}
	return big.NewInt(3_000_000_000), nil
}

func (b *fakeBackend) SendTransaction(_ context.Context, tx *types.Transaction) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.sent = append(b.sent, tx)
	if b.sendErr == nil {
		b.nonce++
	}
	return b.sendErr
}

func (b *fakeBackend) TransactionReceipt(_ context.Context, h common.Hash) (*types.Receipt, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.polls++
	r, ok := b.receipts[h]
	if !ok {
		return nil, ethereum.NotFound
	}
	return r, nil
}

func newTestOracle(t *testing.T, b *fakeBackend, gasLimit uint64) *Oracle {
	t.Helper()
	o, err := New(b, Config{
		ChainID:         testChainID,
		PresaleContract: presaleAddr,
		PrivateKeyHex:   "0x" + testKeyHex,
		GasLimit:        gasLimit,
		ReceiptPoll:     time.Millisecond,
	}, zerolog.New(io.Discard))
	require.NoError(t, err)
	return o
}

func paymentCall() domain.PaymentCall {
	return domain.PaymentCall{
		Buyer:     buyerAddr,
		OptionID:  2,
		Amount:    new(big.Int).Mul(big.NewInt(100), big.NewInt(1e18)),
		PaymentID: buyerAddr + "|1768046400000|abc",
	}
}

func TestNew_Validation(t *testing.T) {
	_, err := New(&fakeBackend{}, Config{PresaleContract: "nope", PrivateKeyHex: testKeyHex}, zerolog.Nop())
	assert.Error(t, err)

	_, err = New(&fakeBackend{}, Config{PresaleContract: presaleAddr, PrivateKeyHex: "zz"}, zerolog.Nop())
	assert.Error(t, err)
}

func TestSimulate(t *testing.T) {
	tests := []struct {
		name         string
		callErr      error
		wantErr      bool
		wantReverted bool
	}{
		{"success", nil, false, false},
		{"revert with data", &revertError{jsonRPCError{3, "execution reverted: already paid"}}, true, true},
		{"revert message only", errors.New("execution reverted"), true, true},
		{"transport failure", errors.New("dial tcp: connection refused"), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newTestOracle(t, &fakeBackend{callErr: tt.callErr}, testGasLimit)
			err := o.Simulate(context.Background(), paymentCall())
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Equal(t, tt.wantReverted, errors.Is(err, ports.ErrSettlementReverted))
		})
	}
}

func TestSubmitPayment_SignsVerifyPayment(t *testing.T) {
	b := &fakeBackend{nonce: 7}
	o := newTestOracle(t, b, testGasLimit)

	hash, err := o.SubmitPayment(context.Background(), paymentCall())
	require.NoError(t, err)
	require.Len(t, b.sent, 1)

	tx := b.sent[0]
	assert.Equal(t, hash, tx.Hash().Hex())
	assert.Equal(t, uint64(7), tx.Nonce())
	assert.Equal(t, uint64(testGasLimit), tx.Gas())
	assert.Equal(t, common.HexToAddress(presaleAddr), *tx.To())

	sender, err := types.Sender(types.LatestSignerForChainID(big.NewInt(testChainID)), tx)
	require.NoError(t, err)
	key, _ := crypto.HexToECDSA(testKeyHex)
	assert.Equal(t, crypto.PubkeyToAddress(key.PublicKey), sender)
	assert.Equal(t, sender, o.Signer())

	method := o.abi.Methods["verifyPayment"]
	assert.Equal(t, method.ID, tx.Data()[:4])
	args, err := method.Inputs.Unpack(tx.Data()[4:])
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(buyerAddr), args[0])
	assert.Equal(t, uint8(2), args[1])
	assert.Equal(t, 0, paymentCall().Amount.Cmp(args[2].(*big.Int)))
	assert.Equal(t, paymentCall().PaymentID, args[3])
}

func TestSubmitPayment_EstimatesGasWhenUnset(t *testing.T) {
	b := &fakeBackend{}
	o := newTestOracle(t, b, 0)

	_, err := o.SubmitPayment(context.Background(), paymentCall())
	require.NoError(t, err)
	assert.Equal(t, uint64(100000), b.sent[0].Gas())
}

func TestSubmitPayment_EstimateReverts(t *testing.T) {
	b := &fakeBackend{callErr: errors.New("execution reverted: option closed")}
	o := newTestOracle(t, b, 0)

	hash, err := o.SubmitPayment(context.Background(), paymentCall())
	assert.Empty(t, hash)
	assert.ErrorIs(t, err, ports.ErrSettlementReverted)
	assert.Empty(t, b.sent)
}

func TestSubmitPayment_BroadcastOutcomes(t *testing.T) {
	tests := []struct {
		name     string
		sendErr  error
		wantHash bool
		wantErr  error
		wantAny  bool
	}{
		{"node rejects", &jsonRPCError{-32000, "insufficient funds for gas * price + value"}, false, ports.ErrSettlementRejected, true},
		{"already known", &jsonRPCError{-32000, "already known"}, true, nil, false},
		{"transport failure", errors.New("context deadline exceeded"), true, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newTestOracle(t, &fakeBackend{sendErr: tt.sendErr}, testGasLimit)
			hash, err := o.SubmitPayment(context.Background(), paymentCall())

			assert.Equal(t, tt.wantHash, hash != "")
			if !tt.wantAny {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.False(t, errors.Is(err, ports.ErrSettlementRejected))
				assert.False(t, errors.Is(err, ports.ErrSettlementReverted))
			}
		})
	}
}

func TestSubmitPayment_InvalidCall(t *testing.T) {
	o := newTestOracle(t, &fakeBackend{}, testGasLimit)
	call := paymentCall()
	call.Amount = big.NewInt(0)

	_, err := o.SubmitPayment(context.Background(), call)
	assert.ErrorIs(t, err, ports.ErrSettlementRejected)
}

func TestTransfer_PacksERC20Transfer(t *testing.T) {
	b := &fakeBackend{}
	o := newTestOracle(t, b, testGasLimit)
	amount := new(big.Int).Mul(big.NewInt(5), big.NewInt(1e18))

	_, err := o.Transfer(context.Background(), domain.TransferCall{To: buyerAddr, Amount: amount, TokenContract: tokenAddr})
	require.NoError(t, err)

	tx := b.sent[0]
	assert.Equal(t, common.HexToAddress(tokenAddr), *tx.To())
	args, err := o.abi.Methods["transfer"].Inputs.Unpack(tx.Data()[4:])
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress(buyerAddr), args[0])
	assert.Equal(t, 0, amount.Cmp(args[1].(*big.Int)))

	_, err = o.Transfer(context.Background(), domain.TransferCall{To: "bad", Amount: amount, TokenContract: tokenAddr})
	assert.ErrorIs(t, err, ports.ErrSettlementRejected)
}

func TestSend_SequentialNonces(t *testing.T) {
	b := &fakeBackend{}
	o := newTestOracle(t, b, testGasLimit)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := o.SubmitPayment(context.Background(), paymentCall())
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	seen := map[uint64]bool{}
	for _, tx := range b.sent {
		seen[tx.Nonce()] = true
	}
	assert.Len(t, seen, 5)
}

func TestReceipt_Mapping(t *testing.T) {
	ok := common.HexToHash("0x01")
	reverted := common.HexToHash("0x02")
	b := &fakeBackend{receipts: map[common.Hash]*types.Receipt{
		ok:       {Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(42)},
		reverted: {Status: types.ReceiptStatusFailed, BlockNumber: big.NewInt(43)},
	}}
	o := newTestOracle(t, b, testGasLimit)
	ctx := context.Background()

	r, err := o.Receipt(ctx, ok.Hex())
	require.NoError(t, err)
	assert.Equal(t, domain.ReceiptSuccess, r.Status)
	assert.Equal(t, uint64(42), r.BlockNumber)

	r, err = o.Receipt(ctx, reverted.Hex())
	require.NoError(t, err)
	assert.Equal(t, domain.ReceiptReverted, r.Status)

	r, err = o.Receipt(ctx, common.HexToHash("0x03").Hex())
	require.NoError(t, err)
	assert.Equal(t, domain.ReceiptNotFound, r.Status)
}

func TestWaitForReceipt_PollsUntilMined(t *testing.T) {
	h := common.HexToHash("0x0a")
	b := &fakeBackend{receipts: map[common.Hash]*types.Receipt{}}
	o := newTestOracle(t, b, testGasLimit)

	go func() {
		time.Sleep(10 * time.Millisecond)
		b.mu.Lock()
		b.receipts[h] = &types.Receipt{Status: types.ReceiptStatusSuccessful, BlockNumber: big.NewInt(1)}
		b.mu.Unlock()
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	r, err := o.WaitForReceipt(ctx, h.Hex())
	require.NoError(t, err)
	assert.Equal(t, domain.ReceiptSuccess, r.Status)
}

func TestWaitForReceipt_Timeout(t *testing.T) {
	o := newTestOracle(t, &fakeBackend{receipts: map[common.Hash]*types.Receipt{}}, testGasLimit)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := o.WaitForReceipt(ctx, common.HexToHash("0x0b").Hex())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestIsRevert(t *testing.T) {
	assert.True(t, isRevert(errors.New("Execution Reverted: paused")))
	assert.False(t, isRevert(errors.New("nonce too low")))
	assert.True(t, isAlreadyKnown(errors.New("known transaction: 0xabc")))
}

func TestOracle_Ping(t *testing.T) {
	b := &fakeBackend{}
	o := newTestOracle(t, b, testGasLimit)

	assert.NoError(t, o.Ping(context.Background()))
	assert.Equal(t, "settlement_rpc", o.Name())

	b.priceErr = errors.New("connection refused")
	err := o.Ping(context.Background())
	assert.ErrorContains(t, err, "settlement rpc")
}
