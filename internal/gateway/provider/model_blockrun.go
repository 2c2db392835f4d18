package provider

import (
	"bytes"
	"context"
	"crypto/ecdsa"
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"aitrader/internal/logger"
)

// 中文说明：
// BlockRunClient：按次付费的 AI 网关（x402 微支付，Base 链 USDC）。
// 无传统 API Key，流程：首次请求收到 402 与支付要求 → 本地用钱包私钥
// 对 EIP-3009 TransferWithAuthorization 做 EIP-712 签名 → 带
// X-PAYMENT 头重发。私钥只在本地签名，绝不上送。

type BlockRunClient struct {
	BaseURL string
	Model   string
	Timeout time.Duration

	key  *ecdsa.PrivateKey
	from string
}

const blockrunDefaultBaseURL = "https://blockrun.ai/api/v1"

func NewBlockRunClient(baseURL, model, walletKey string, timeout time.Duration) (*BlockRunClient, error) {
	walletKey = strings.TrimPrefix(strings.TrimSpace(walletKey), "0x")
	if walletKey == "" {
		return nil, fmt.Errorf("blockrun 需要配置钱包私钥（BLOCKRUN_WALLET_KEY）")
	}
	key, err := crypto.HexToECDSA(walletKey)
	if err != nil {
		return nil, fmt.Errorf("钱包私钥无效: %w", err)
	}
	if baseURL == "" {
		baseURL = blockrunDefaultBaseURL
	}
	if timeout == 0 {
		timeout = 120 * time.Second
	}
	return &BlockRunClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Model:   model,
		Timeout: timeout,
		key:     key,
		from:    crypto.PubkeyToAddress(key.PublicKey).Hex(),
	}, nil
}

func (c *BlockRunClient) ID() string { return c.Model }

// WalletAddress 返回用于付款的钱包地址。
func (c *BlockRunClient) WalletAddress() string { return c.from }

func (c *BlockRunClient) Call(ctx context.Context, payload ChatPayload) (string, error) {
	body := c.requestBody(payload)
	httpc := &http.Client{Timeout: c.Timeout}

	resp, err := c.post(ctx, httpc, body, "")
	if err != nil {
		return "", err
	}
	if resp.StatusCode == http.StatusPaymentRequired {
		reqs, perr := decodePaymentRequirements(resp)
		if perr != nil {
			return "", perr
		}
		header, serr := c.signPayment(reqs)
		if serr != nil {
			return "", serr
		}
		logger.Debugf("[AI] x402 支付已签名 from=%s payTo=%s amount=%s", c.from, reqs.PayTo, reqs.MaxAmountRequired)
		resp, err = c.post(ctx, httpc, body, header)
		if err != nil {
			return "", err
		}
	}
	if resp.StatusCode/100 != 2 {
		msg := decodeAPIError(resp)
		return "", fmt.Errorf("status=%d: %s", resp.StatusCode, msg)
	}
	return decodeChatContent(resp)
}

func (c *BlockRunClient) requestBody(payload ChatPayload) []byte {
	messages := []map[string]string{}
	if payload.System != "" {
		messages = append(messages, map[string]string{"role": "system", "content": payload.System})
	}
	messages = append(messages, map[string]string{"role": "user", "content": payload.User})
	body := map[string]any{
		"model":       c.Model,
		"messages":    messages,
		"temperature": payload.Temperature,
	}
	if payload.MaxTokens > 0 {
		body["max_tokens"] = payload.MaxTokens
	}
	if payload.ExpectJSON {
		body["response_format"] = map[string]string{"type": "json_object"}
	}
	b, _ := json.Marshal(body)
	return b
}

func (c *BlockRunClient) post(ctx context.Context, httpc *http.Client, body []byte, paymentHeader string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if paymentHeader != "" {
		req.Header.Set("X-PAYMENT", paymentHeader)
	}
	return httpc.Do(req)
}

// paymentRequirements 是 402 响应里 accepts 数组的单个条目。
type paymentRequirements struct {
	Scheme            string `json:"scheme"`
	Network           string `json:"network"`
	MaxAmountRequired string `json:"maxAmountRequired"`
	PayTo             string `json:"payTo"`
	Asset             string `json:"asset"`
	MaxTimeoutSeconds int64  `json:"maxTimeoutSeconds"`
	Extra             struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	} `json:"extra"`
}

func decodePaymentRequirements(resp *http.Response) (*paymentRequirements, error) {
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var body struct {
		Accepts []paymentRequirements `json:"accepts"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("解析 402 支付要求失败: %w", err)
	}
	if len(body.Accepts) == 0 {
		return nil, fmt.Errorf("402 响应缺少 accepts")
	}
	return &body.Accepts[0], nil
}

// chainIDs x402 支持的网络。
var chainIDs = map[string]int64{
	"base":         8453,
	"base-sepolia": 84532,
}

// signPayment 构造并签名 EIP-3009 转账授权，返回 X-PAYMENT 头内容。
func (c *BlockRunClient) signPayment(reqs *paymentRequirements) (string, error) {
	chainID, ok := chainIDs[strings.ToLower(reqs.Network)]
	if !ok {
		return "", fmt.Errorf("不支持的支付网络: %s", reqs.Network)
	}
	nonce := make([]byte, 32)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	timeoutSecs := reqs.MaxTimeoutSeconds
	if timeoutSecs <= 0 {
		timeoutSecs = 60
	}
	validBefore := time.Now().Unix() + timeoutSecs

	td := apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": {
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"TransferWithAuthorization": {
				{Name: "from", Type: "address"},
				{Name: "to", Type: "address"},
				{Name: "value", Type: "uint256"},
				{Name: "validAfter", Type: "uint256"},
				{Name: "validBefore", Type: "uint256"},
				{Name: "nonce", Type: "bytes32"},
			},
		},
		PrimaryType: "TransferWithAuthorization",
		Domain: apitypes.TypedDataDomain{
			Name:              reqs.Extra.Name,
			Version:           reqs.Extra.Version,
			ChainId:           math.NewHexOrDecimal256(chainID),
			VerifyingContract: reqs.Asset,
		},
		Message: apitypes.TypedDataMessage{
			"from":        c.from,
			"to":          reqs.PayTo,
			"value":       reqs.MaxAmountRequired,
			"validAfter":  "0",
			"validBefore": fmt.Sprintf("%d", validBefore),
			"nonce":       hexutil.Encode(nonce),
		},
	}
	hash, _, err := apitypes.TypedDataAndHash(td)
	if err != nil {
		return "", fmt.Errorf("EIP-712 哈希失败: %w", err)
	}
	sig, err := crypto.Sign(hash, c.key)
	if err != nil {
		return "", err
	}
	// 合约端要求 v ∈ {27,28}
	sig[64] += 27

	paymentPayload := map[string]any{
		"x402Version": 1,
		"scheme":      reqs.Scheme,
		"network":     reqs.Network,
		"payload": map[string]any{
			"signature": hexutil.Encode(sig),
			"authorization": map[string]any{
				"from":        c.from,
				"to":          reqs.PayTo,
				"value":       reqs.MaxAmountRequired,
				"validAfter":  "0",
				"validBefore": fmt.Sprintf("%d", validBefore),
				"nonce":       hexutil.Encode(nonce),
			},
		},
	}
	b, err := json.Marshal(paymentPayload)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(b), nil
}
