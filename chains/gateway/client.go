package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/hyperledger-labs/yui-colony/core"
)

// Gateway endpoints. Every endpoint takes a JSON body via POST.
const (
	endpointCurrentHeight  = "current-height"
	endpointBlockInfo      = "block-info"
	endpointAccountInfo    = "account-info"
	endpointContractState  = "contract-state"
	endpointExecuteMethod  = "contract-method/execute"
	endpointNativeTransfer = "native-token/transfer"
)

// Client talks to a contract gateway that fronts the full node of a
// destination chain.
type Client struct {
	chainName   string
	baseURL     string
	fullNodeURI string
	http        *http.Client
}

func NewClient(chainName, baseURL, fullNodeURI string, timeout time.Duration) *Client {
	return &Client{
		chainName:   chainName,
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		fullNodeURI: fullNodeURI,
		http: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
			Timeout:   timeout,
		},
	}
}

type response struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Msg     string          `json:"msg"`
}

// remoteErrors maps error names reported by contracts to local errors.
var remoteErrors = []struct {
	name string
	err  error
}{
	{"AlreadyDelivered", core.ErrAlreadyDelivered},
	{"SequenceGap", core.ErrSequenceGap},
	{"InsufficientBalance", core.ErrInsufficientBalance},
	{"AssetNotHeld", core.ErrAssetNotHeld},
	{"HeightMismatch", core.ErrHeightMismatch},
	{"InvalidProof", core.ErrInvalidProof},
	{"InvalidAddress", core.ErrInvalidAddress},
	{"ValueIsOver10", core.ErrInvalidMessage},
}

func remoteError(endpoint, msg string) error {
	if err := knownRemoteError(endpoint, msg); err != nil {
		return err
	}
	return errors.Newf("gateway %s: %s", endpoint, msg)
}

// knownRemoteError returns nil if msg names none of remoteErrors.
func knownRemoteError(endpoint, msg string) error {
	for _, re := range remoteErrors {
		if strings.Contains(msg, re.name) {
			return errors.Wrapf(re.err, "gateway %s: %s", endpoint, msg)
		}
	}
	return nil
}

// statusError classifies a non-200 reply. Client errors other than 408 and
// 429 are not connection failures.
func statusError(chainName, endpoint string, resp *http.Response, body []byte) error {
	switch code := resp.StatusCode; {
	case code >= 400 && code < 500 && code != http.StatusRequestTimeout && code != http.StatusTooManyRequests:
		if err := knownRemoteError(endpoint, string(body)); err != nil {
			return err
		}
		return errors.Wrapf(core.ErrInvalidMessage, "gateway %s returned %s: %s", endpoint, resp.Status, body)
	default:
		return &core.ConnectionError{
			Chain:  chainName,
			Reason: errors.Newf("gateway %s returned %s: %s", endpoint, resp.Status, body),
		}
	}
}

func (c *Client) call(ctx context.Context, endpoint string, body map[string]any, out any) error {
	body["fullNodeUri"] = c.fullNodeURI
	bz, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+endpoint, bytes.NewReader(bz))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return &core.ConnectionError{Chain: c.chainName, Reason: err}
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return &core.ConnectionError{Chain: c.chainName, Reason: err}
	}
	if resp.StatusCode != http.StatusOK {
		return statusError(c.chainName, endpoint, resp, bytes.TrimSpace(raw))
	}

	var r response
	if err := json.Unmarshal(raw, &r); err != nil {
		return errors.Wrapf(err, "failed to decode response of %s", endpoint)
	}
	if !r.Success {
		return remoteError(endpoint, r.Msg)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(r.Data, out); err != nil {
		return errors.Wrapf(err, "failed to decode data of %s", endpoint)
	}
	return nil
}

// CurrentHeight returns the height of the latest block.
func (c *Client) CurrentHeight(ctx context.Context) (uint64, error) {
	var data struct {
		Height uint64 `json:"height"`
	}
	if err := c.call(ctx, endpointCurrentHeight, map[string]any{}, &data); err != nil {
		return 0, err
	}
	return data.Height, nil
}

type BlockInfo struct {
	BlockHash string `json:"blockHash"`
	Timestamp uint64 `json:"timestamp"`
}

func (c *Client) BlockInfo(ctx context.Context, height uint64) (*BlockInfo, error) {
	var info BlockInfo
	if err := c.call(ctx, endpointBlockInfo, map[string]any{"height": height}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

type AccountInfo struct {
	NativeToken      string `json:"nativeToken"`
	MemeToken        string `json:"memeToken"`
	NonFungibleToken string `json:"nonFungibleToken"`
}

func (c *Client) AccountInfo(ctx context.Context, addr string) (*AccountInfo, error) {
	var info AccountInfo
	if err := c.call(ctx, endpointAccountInfo, map[string]any{"addr": addr}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

type ContractQuery struct {
	ContractName string   `json:"contractName"`
	MessageName  string   `json:"messageName"`
	MessageType  string   `json:"messageType"`
	Output       []string `json:"output"`
}

// ContractState reads field of the contract deployed at contractAddr.
func (c *Client) ContractState(ctx context.Context, contractName, contractAddr, field string) (*ContractQuery, error) {
	var q ContractQuery
	err := c.call(ctx, endpointContractState, map[string]any{
		"contractName": contractName,
		"contractAddr": contractAddr,
		"field":        field,
	}, &q)
	if err != nil {
		return nil, err
	}
	return &q, nil
}

type ContractTx struct {
	ContractName string `json:"contractName"`
	MessageName  string `json:"messageName"`
	MessageType  string `json:"messageType"`
	TxHash       string `json:"txHash"`
}

// Execute sends a transaction calling methodName, signed with the key derived
// from mnemonic.
func (c *Client) Execute(ctx context.Context, mnemonic, contractName, contractAddr, methodName string, arguments []string) (*ContractTx, error) {
	var tx ContractTx
	err := c.call(ctx, endpointExecuteMethod, map[string]any{
		"mnemonic":     mnemonic,
		"contractName": contractName,
		"contractAddr": contractAddr,
		"methodName":   methodName,
		"arguments":    arguments,
	}, &tx)
	if err != nil {
		return nil, err
	}
	return &tx, nil
}

// TransferNativeToken sends amount of the native token to toAddr.
func (c *Client) TransferNativeToken(ctx context.Context, mnemonic, toAddr string, amount uint64, decimals uint8) (string, error) {
	var data struct {
		TxHash string `json:"txHash"`
	}
	err := c.call(ctx, endpointNativeTransfer, map[string]any{
		"mnemonic":      mnemonic,
		"toAddr":        toAddr,
		"amount":        amount,
		"planckToOneNT": decimals,
	}, &data)
	if err != nil {
		return "", err
	}
	return data.TxHash, nil
}
