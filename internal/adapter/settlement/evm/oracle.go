// Package evm implements ports.SettlementOracle against an EVM chain: the
// presale contract's verifyPayment and ERC-20 transfer.
package evm

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"presale-backend/internal/core/domain"
	"presale-backend/internal/core/ports"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

const contractABI = `[
  {"type":"function","name":"verifyPayment","stateMutability":"nonpayable","outputs":[],
   "inputs":[{"name":"buyer","type":"address"},{"name":"optionId","type":"uint8"},
             {"name":"amount","type":"uint256"},{"name":"paymentId","type":"string"}]},
  {"type":"function","name":"transfer","stateMutability":"nonpayable","outputs":[{"name":"","type":"bool"}],
   "inputs":[{"name":"to","type":"address"},{"name":"value","type":"uint256"}]}
]`

const defaultReceiptPoll = 2 * time.Second

// Backend is the part of ethclient.Client the oracle needs.
type Backend interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	EstimateGas(ctx context.Context, msg ethereum.CallMsg) (uint64, error)
	PendingNonceAt(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPrice(ctx context.Context) (*big.Int, error)
	SendTransaction(ctx context.Context, tx *types.Transaction) error
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
}

// Config holds the oracle's chain parameters.
type Config struct {
	ChainID         int64
	PresaleContract string
	PrivateKeyHex   string
	GasLimit        uint64 // 0 estimates per transaction
	RPCRate         float64
	RPCBurst        int
	ReceiptPoll     time.Duration
}

// Oracle signs and broadcasts settlement transactions.
type Oracle struct {
	backend  Backend
	contract common.Address
	key      *ecdsa.PrivateKey
	from     common.Address
	signer   types.Signer
	gasLimit uint64
	poll     time.Duration
	limiter  *rate.Limiter
	abi      abi.ABI
	nonceMu  sync.Mutex
	log      zerolog.Logger
}

// Dial connects to the chain's JSON-RPC endpoint.
func Dial(ctx context.Context, rpcURL string) (*ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dialing rpc %s: %w", rpcURL, err)
	}
	return client, nil
}

// New creates an Oracle. The private key is hex, with or without 0x.
func New(backend Backend, cfg Config, log zerolog.Logger) (*Oracle, error) {
	if !common.IsHexAddress(cfg.PresaleContract) {
		return nil, fmt.Errorf("invalid presale contract address %q", cfg.PresaleContract)
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("parsing signer key: %w", err)
	}
	parsed, err := abi.JSON(strings.NewReader(contractABI))
	if err != nil {
		return nil, fmt.Errorf("parsing contract abi: %w", err)
	}

	limit := rate.Inf
	if cfg.RPCRate > 0 {
		limit = rate.Limit(cfg.RPCRate)
	}
	burst := cfg.RPCBurst
	if burst <= 0 {
		burst = 1
	}
	poll := cfg.ReceiptPoll
	if poll <= 0 {
		poll = defaultReceiptPoll
	}

	o := &Oracle{
		backend:  backend,
		contract: common.HexToAddress(cfg.PresaleContract),
		key:      key,
		from:     crypto.PubkeyToAddress(key.PublicKey),
		signer:   types.LatestSignerForChainID(big.NewInt(cfg.ChainID)),
		gasLimit: cfg.GasLimit,
		poll:     poll,
		limiter:  rate.NewLimiter(limit, burst),
		abi:      parsed,
		log:      log,
	}
	log.Info().
		Str("signer", o.from.Hex()).
		Str("contract", o.contract.Hex()).
		Int64("chain_id", cfg.ChainID).
		Msg("settlement oracle ready")
	return o, nil
}

// Signer returns the address transactions are sent from.
func (o *Oracle) Signer() common.Address {
	return o.from
}

// Ping checks that the RPC endpoint answers. It does not consume the RPC
// throttle so health checks never queue behind settlement traffic.
func (o *Oracle) Ping(ctx context.Context) error {
	if _, err := o.backend.SuggestGasPrice(ctx); err != nil {
		return fmt.Errorf("settlement rpc: %w", err)
	}
	return nil
}

// Name identifies the oracle in health reports.
func (o *Oracle) Name() string {
	return "settlement_rpc"
}

// Simulate dry-runs verifyPayment with eth_call.
func (o *Oracle) Simulate(ctx context.Context, call domain.PaymentCall) error {
	data, err := o.packPayment(call)
	if err != nil {
		return err
	}
	if err := o.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err = o.backend.CallContract(ctx, ethereum.CallMsg{From: o.from, To: &o.contract, Data: data}, nil)
	if err != nil {
		return classifyCallError("simulate verifyPayment", err)
	}
	return nil
}

// SubmitPayment broadcasts verifyPayment.
func (o *Oracle) SubmitPayment(ctx context.Context, call domain.PaymentCall) (string, error) {
	data, err := o.packPayment(call)
	if err != nil {
		return "", err
	}
	return o.send(ctx, o.contract, data)
}

// Transfer broadcasts an ERC-20 transfer from the signer to call.To.
func (o *Oracle) Transfer(ctx context.Context, call domain.TransferCall) (string, error) {
	if !common.IsHexAddress(call.TokenContract) || !common.IsHexAddress(call.To) {
		return "", fmt.Errorf("%w: invalid transfer address", ports.ErrSettlementRejected)
	}
	if call.Amount == nil || call.Amount.Sign() <= 0 {
		return "", fmt.Errorf("%w: transfer amount must be positive", ports.ErrSettlementRejected)
	}
	data, err := o.abi.Pack("transfer", common.HexToAddress(call.To), call.Amount)
	if err != nil {
		return "", fmt.Errorf("%w: packing transfer: %v", ports.ErrSettlementRejected, err)
	}
	return o.send(ctx, common.HexToAddress(call.TokenContract), data)
}

// Receipt returns the current receipt, NOT_FOUND while unmined.
func (o *Oracle) Receipt(ctx context.Context, txHash string) (*domain.Receipt, error) {
	if err := o.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	r, err := o.backend.TransactionReceipt(ctx, common.HexToHash(txHash))
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return &domain.Receipt{TxHash: txHash, Status: domain.ReceiptNotFound}, nil
		}
		return nil, fmt.Errorf("fetching receipt %s: %w", txHash, err)
	}

	status := domain.ReceiptReverted
	if r.Status == types.ReceiptStatusSuccessful {
		status = domain.ReceiptSuccess
	}
	var block uint64
	if r.BlockNumber != nil {
		block = r.BlockNumber.Uint64()
	}
	return &domain.Receipt{TxHash: txHash, Status: status, BlockNumber: block}, nil
}

// WaitForReceipt polls until the transaction is mined or ctx ends.
func (o *Oracle) WaitForReceipt(ctx context.Context, txHash string) (*domain.Receipt, error) {
	ticker := time.NewTicker(o.poll)
	defer ticker.Stop()

	for {
		r, err := o.Receipt(ctx, txHash)
		switch {
		case err != nil && ctx.Err() != nil:
			return nil, ctx.Err()
		case err != nil:
			o.log.Warn().Err(err).Str("tx_hash", txHash).Msg("receipt poll failed, retrying")
		case r.Status != domain.ReceiptNotFound:
			return r, nil
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}

func (o *Oracle) packPayment(call domain.PaymentCall) ([]byte, error) {
	if !common.IsHexAddress(call.Buyer) {
		return nil, fmt.Errorf("%w: invalid buyer address", ports.ErrSettlementRejected)
	}
	if call.Amount == nil || call.Amount.Sign() <= 0 {
		return nil, fmt.Errorf("%w: payment amount must be positive", ports.ErrSettlementRejected)
	}
	data, err := o.abi.Pack("verifyPayment", common.HexToAddress(call.Buyer), call.OptionID, call.Amount, call.PaymentID)
	if err != nil {
		return nil, fmt.Errorf("%w: packing verifyPayment: %v", ports.ErrSettlementRejected, err)
	}
	return data, nil
}

// send signs and broadcasts a transaction to `to`. Nonces are assigned under
// nonceMu so concurrent sends from one signer do not collide.
func (o *Oracle) send(ctx context.Context, to common.Address, data []byte) (string, error) {
	o.nonceMu.Lock()
	defer o.nonceMu.Unlock()

	// Step 1: nonce, gas price and gas limit. Nothing is broadcast yet.
	if err := o.limiter.Wait(ctx); err != nil {
		return "", err
	}
	nonce, err := o.backend.PendingNonceAt(ctx, o.from)
	if err != nil {
		return "", fmt.Errorf("fetching nonce: %w", err)
	}
	gasPrice, err := o.backend.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("fetching gas price: %w", err)
	}
	gas := o.gasLimit
	if gas == 0 {
		gas, err = o.backend.EstimateGas(ctx, ethereum.CallMsg{From: o.from, To: &to, Data: data})
		if err != nil {
			return "", classifyCallError("estimating gas", err)
		}
	}

	// Step 2: sign
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		GasPrice: gasPrice,
		Gas:      gas,
		To:       &to,
		Value:    big.NewInt(0),
		Data:     data,
	})
	signed, err := types.SignTx(tx, o.signer, o.key)
	if err != nil {
		return "", fmt.Errorf("signing transaction: %w", err)
	}
	hash := signed.Hash().Hex()

	// Step 3: broadcast
	if err := o.backend.SendTransaction(ctx, signed); err != nil {
		var rpcErr rpc.Error
		switch {
		case isAlreadyKnown(err):
			return hash, nil
		case isRevert(err):
			return "", fmt.Errorf("%w: %v", ports.ErrSettlementReverted, err)
		case errors.As(err, &rpcErr):
			// The node answered and refused the transaction.
			return "", fmt.Errorf("%w: %v", ports.ErrSettlementRejected, err)
		default:
			// Transport failure: the node may have accepted it.
			return hash, fmt.Errorf("broadcasting %s: %w", hash, err)
		}
	}

	o.log.Info().Str("tx_hash", hash).Uint64("nonce", nonce).Str("to", to.Hex()).Msg("transaction broadcast")
	return hash, nil
}

func classifyCallError(op string, err error) error {
	if isRevert(err) {
		return fmt.Errorf("%w: %s: %v", ports.ErrSettlementReverted, op, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

func isRevert(err error) bool {
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) && dataErr.ErrorData() != nil {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "execution reverted")
}

func isAlreadyKnown(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "already known") || strings.Contains(msg, "known transaction")
}
