package deposit

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"log/slog"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/shopspring/decimal"

	"near-intents/config"
	"near-intents/pkg/assets"
)

// EVMDepositor sends bridged-token deposits on the token's origin
// chain: for a bridged asset the swap input has to reach the bridge's
// deposit address as an ERC20 transfer.
type EVMDepositor struct {
	cfg        config.EVMDepositConfig
	asset      assets.Asset
	contract   common.Address
	client     *ethclient.Client
	privateKey *ecdsa.PrivateKey
	log        *slog.Logger
}

const erc20TransferABI = `[{"constant":false,"inputs":[{"name":"_to","type":"address"},{"name":"_value","type":"uint256"}],"name":"transfer","outputs":[{"name":"","type":"bool"}],"type":"function"}]`

const erc20BalanceOfABI = `[{"constant":true,"inputs":[{"name":"_owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"balance","type":"uint256"}],"type":"function"}]`

// NewEVMDepositor creates a depositor for one bridged asset.
func NewEVMDepositor(cfg config.EVMDepositConfig, asset assets.Asset, log *slog.Logger) (*EVMDepositor, error) {
	if cfg.RPCURL == "" {
		return nil, fmt.Errorf("RPC URL not configured for EVM deposits")
	}
	if cfg.PrivateKey == "" {
		return nil, fmt.Errorf("private key not configured for EVM deposits")
	}

	contractHex, ok := cfg.TokenContracts[strings.ToUpper(asset.Symbol)]
	if !ok {
		return nil, fmt.Errorf("no origin-chain contract configured for %s", asset.Symbol)
	}
	if !common.IsHexAddress(contractHex) {
		return nil, fmt.Errorf("invalid token contract address: %s", contractHex)
	}

	client, err := ethclient.Dial(cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC endpoint: %w", err)
	}

	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("invalid private key: %w", err)
	}

	if log == nil {
		log = slog.Default()
	}

	return &EVMDepositor{
		cfg:        cfg,
		asset:      asset,
		contract:   common.HexToAddress(contractHex),
		client:     client,
		privateKey: privateKey,
		log:        log,
	}, nil
}

// SendDeposit transfers amount (human units) of the asset to address on
// the origin chain.
func (e *EVMDepositor) SendDeposit(ctx context.Context, address, amount string) (string, error) {
	if !common.IsHexAddress(address) {
		return "", fmt.Errorf("invalid deposit address: %s", address)
	}
	toAddress := common.HexToAddress(address)

	amountUnits, err := e.toTokenUnits(amount)
	if err != nil {
		return "", err
	}

	publicKey, ok := e.privateKey.Public().(*ecdsa.PublicKey)
	if !ok {
		return "", fmt.Errorf("failed to derive public key")
	}
	fromAddress := crypto.PubkeyToAddress(*publicKey)

	balance, err := e.tokenBalance(ctx, fromAddress)
	if err != nil {
		return "", fmt.Errorf("failed to get token balance: %w", err)
	}
	if balance.Cmp(amountUnits) < 0 {
		return "", fmt.Errorf("insufficient %s balance: have %s, need %s", e.asset.Symbol, balance, amountUnits)
	}

	nonce, err := e.client.PendingNonceAt(ctx, fromAddress)
	if err != nil {
		return "", fmt.Errorf("failed to get nonce: %w", err)
	}
	gasPrice, err := e.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get gas price: %w", err)
	}

	parsedABI, err := abi.JSON(strings.NewReader(erc20TransferABI))
	if err != nil {
		return "", fmt.Errorf("failed to parse ERC20 ABI: %w", err)
	}
	data, err := parsedABI.Pack("transfer", toAddress, amountUnits)
	if err != nil {
		return "", fmt.Errorf("failed to pack transfer data: %w", err)
	}

	gasLimit := e.cfg.GasLimit
	if gasLimit == 0 {
		gasLimit = 100_000
		msg := ethereum.CallMsg{From: fromAddress, To: &e.contract, Data: data}
		if estimated, err := e.client.EstimateGas(ctx, msg); err == nil {
			gasLimit = estimated * 120 / 100
		}
	}

	tx := ethtypes.NewTransaction(nonce, e.contract, big.NewInt(0), gasLimit, gasPrice, data)
	signedTx, err := ethtypes.SignTx(tx, ethtypes.NewEIP155Signer(big.NewInt(e.cfg.ChainID)), e.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := e.client.SendTransaction(ctx, signedTx); err != nil {
		return "", fmt.Errorf("failed to send transaction: %w", err)
	}

	e.log.Info("origin-chain deposit sent",
		"asset", e.asset.Symbol, "tx", signedTx.Hash().Hex())
	return signedTx.Hash().Hex(), nil
}

// toTokenUnits converts a human-readable amount to the token's smallest
// unit at the asset's registered precision.
func (e *EVMDepositor) toTokenUnits(amount string) (*big.Int, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid amount format: %s", amount)
	}
	units, ok := new(big.Int).SetString(d.Shift(e.asset.Decimals).Truncate(0).String(), 10)
	if !ok {
		return nil, fmt.Errorf("unencodable amount: %s", amount)
	}
	return units, nil
}

func (e *EVMDepositor) tokenBalance(ctx context.Context, owner common.Address) (*big.Int, error) {
	parsedABI, err := abi.JSON(strings.NewReader(erc20BalanceOfABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse balanceOf ABI: %w", err)
	}
	data, err := parsedABI.Pack("balanceOf", owner)
	if err != nil {
		return nil, fmt.Errorf("failed to pack balanceOf data: %w", err)
	}

	result, err := e.client.CallContract(ctx, ethereum.CallMsg{To: &e.contract, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to call balanceOf: %w", err)
	}

	return new(big.Int).SetBytes(result), nil
}

// Close closes the underlying RPC connection.
func (e *EVMDepositor) Close() {
	if e.client != nil {
		e.client.Close()
	}
}
