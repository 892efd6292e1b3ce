package anchor

import (
	"context"
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"

	"github.com/shopspring/decimal"

	"github.com/sahakari/coop_backend/internal/core/domain"
)

var decimalHundred = decimal.NewFromInt(100)

// transactionLedgerABI is the ABI of the on-chain TransactionLedger contract.
const transactionLedgerABI = `[
	{
		"inputs": [
			{"internalType": "string", "name": "transactionId", "type": "string"},
			{"internalType": "string", "name": "txType", "type": "string"},
			{"internalType": "string", "name": "account", "type": "string"},
			{"internalType": "uint256", "name": "amount", "type": "uint256"},
			{"internalType": "string", "name": "fingerprint", "type": "string"}
		],
		"name": "recordTransaction",
		"outputs": [],
		"stateMutability": "nonpayable",
		"type": "function"
	}
]`

// anchorGasLimit is generous because the contract stores the full fingerprint.
const anchorGasLimit = uint64(500000)

// EthSubmitter writes ledger fingerprints to an Ethereum contract.
type EthSubmitter struct {
	client          *ethclient.Client
	contractAddress common.Address
	contractABI     abi.ABI
	privateKey      *ecdsa.PrivateKey
	fromAddress     common.Address
	pollInterval    time.Duration
}

// NewEthSubmitter dials the RPC endpoint and prepares signing material.
func NewEthSubmitter(ctx context.Context, rpcURL, contractAddr, privateKeyHex string) (*EthSubmitter, error) {
	client, err := ethclient.Dial(rpcURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to ethereum rpc: %w", err)
	}

	// Verify connectivity before accepting work
	if _, err := client.ChainID(ctx); err != nil {
		return nil, fmt.Errorf("failed to get chain ID: %w", err)
	}

	privateKey, err := crypto.HexToECDSA(strings.TrimPrefix(privateKeyHex, "0x"))
	if err != nil {
		return nil, fmt.Errorf("failed to load private key: %w", err)
	}

	publicKeyECDSA, ok := privateKey.Public().(*ecdsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("error casting public key to ECDSA")
	}

	contractABI, err := abi.JSON(strings.NewReader(transactionLedgerABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse contract ABI: %w", err)
	}

	return &EthSubmitter{
		client:          client,
		contractAddress: common.HexToAddress(contractAddr),
		contractABI:     contractABI,
		privateKey:      privateKey,
		fromAddress:     crypto.PubkeyToAddress(*publicKeyECDSA),
		pollInterval:    2 * time.Second,
	}, nil
}

var _ Submitter = (*EthSubmitter)(nil)

// Submit packs recordTransaction(transactionId, txType, account, amount, fingerprint),
// signs a legacy transaction and sends it. The amount is anchored in the
// smallest currency unit so it fits a uint256 without a decimal point.
func (s *EthSubmitter) Submit(ctx context.Context, txn domain.Transaction, fingerprint string) (string, error) {
	nonce, err := s.client.PendingNonceAt(ctx, s.fromAddress)
	if err != nil {
		return "", fmt.Errorf("failed to get nonce: %w", err)
	}

	gasPrice, err := s.client.SuggestGasPrice(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get gas price: %w", err)
	}

	chainID, err := s.client.ChainID(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to get chain ID: %w", err)
	}

	amountCents := txn.Amount.Mul(decimalHundred).IntPart()
	data, err := s.contractABI.Pack("recordTransaction",
		txn.TransactionID,
		string(txn.Type),
		txn.UserID,
		big.NewInt(amountCents),
		fingerprint,
	)
	if err != nil {
		return "", fmt.Errorf("failed to pack transaction data: %w", err)
	}

	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &s.contractAddress,
		Value:    big.NewInt(0),
		Gas:      anchorGasLimit,
		GasPrice: gasPrice,
		Data:     data,
	})

	signedTx, err := types.SignTx(tx, types.NewEIP155Signer(chainID), s.privateKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign transaction: %w", err)
	}

	if err := s.client.SendTransaction(ctx, signedTx); err != nil {
		return "", fmt.Errorf("failed to send transaction: %w", err)
	}

	return signedTx.Hash().Hex(), nil
}

// WaitConfirmation polls for the transaction receipt until ctx expires.
func (s *EthSubmitter) WaitConfirmation(ctx context.Context, blockchainTxHash string) (int64, error) {
	txHash := common.HexToHash(blockchainTxHash)

	ticker := time.NewTicker(s.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-ticker.C:
			receipt, err := s.client.TransactionReceipt(ctx, txHash)
			if err != nil {
				// Receipt not available yet, keep polling
				continue
			}
			if receipt.Status != types.ReceiptStatusSuccessful {
				return 0, fmt.Errorf("transaction %s reverted on chain", blockchainTxHash)
			}
			return receipt.BlockNumber.Int64(), nil
		}
	}
}
