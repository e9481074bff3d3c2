package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/hyperledger-labs/yui-colony/config"
	"github.com/hyperledger-labs/yui-colony/core"
)

type response struct {
	Data  json.RawMessage `json:"data"`
	Error *errorBody      `json:"error"`
}

func newTestServer(t *testing.T, chains ...core.Chain) *httptest.Server {
	t.Helper()
	cs := config.Chains(chains)
	srv := httptest.NewServer(NewAPIServer(registry(cs), cs.Names).Handler())
	t.Cleanup(srv.Close)
	return srv
}

type registry config.Chains

func (r registry) GetChain(name string) (core.Chain, error) {
	return config.Chains(r).Get(name)
}

func post(t *testing.T, srv *httptest.Server, path string, body any) (int, response) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	resp, err := http.Post(srv.URL+path, "application/json", &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	var r response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&r))
	return resp.StatusCode, r
}

func newMockChain(t *testing.T, name string) *core.MockChain {
	ctrl := gomock.NewController(t)
	chain := core.NewMockChain(ctrl)
	chain.EXPECT().ChainName().Return(name).AnyTimes()
	return chain
}

func TestQueries(t *testing.T) {
	chain := newMockChain(t, "astar")
	chain.EXPECT().LastBlock(gomock.Any()).Return(&core.Block{Height: 7, Timestamp: 100}, nil)
	chain.EXPECT().LightClientHeader(gomock.Any()).Return(core.Header{0x02}, nil)
	chain.EXPECT().TreasuryFungibleTokenBalance(gomock.Any()).Return(map[string]sdkmath.Uint{"0x1": sdkmath.NewUint(700)}, nil)
	srv := newTestServer(t, chain)

	status, r := post(t, srv, "/astar/get_chain_name", nil)
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `"astar"`, string(r.Data))

	status, r = post(t, srv, "/astar/get_last_block", nil)
	require.Equal(t, http.StatusOK, status)
	require.JSONEq(t, `{"height":7,"timestamp":100}`, string(r.Data))

	_, r = post(t, srv, "/astar/get_light_client_header", nil)
	require.JSONEq(t, `"0x02"`, string(r.Data))

	_, r = post(t, srv, "/astar/get_treasury_fungible_token_balance", nil)
	require.JSONEq(t, `{"0x1":"700"}`, string(r.Data))

	resp, err := http.Get(srv.URL + "/chains")
	require.NoError(t, err)
	defer resp.Body.Close()
	var names response
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&names))
	require.JSONEq(t, `["astar"]`, string(names.Data))
}

func TestUpdateAndTransfer(t *testing.T) {
	chain := newMockChain(t, "astar")
	chain.EXPECT().UpdateLightClient(gomock.Any(), core.Header{0x02}, core.BlockFinalizationProof("valid")).Return(nil)
	chain.EXPECT().TransferTreasuryFungibleToken(gomock.Any(), gomock.Any(), uint64(1), core.MerkleProof("valid")).
		DoAndReturn(func(_ context.Context, msg core.FungibleTokenTransfer, _ uint64, _ core.MerkleProof) error {
			require.Equal(t, "0x1", msg.TokenID)
			require.Equal(t, "300", msg.Amount.String())
			require.Equal(t, "0x3", msg.ReceiverAddress)
			require.EqualValues(t, 1, msg.ContractSequence)
			return nil
		})
	chain.EXPECT().DeliverCustomOrder(gomock.Any(), "simple_counter", core.Custom{Message: "increment", ContractSequence: 2}, uint64(1), core.MerkleProof("valid")).Return(nil)
	srv := newTestServer(t, chain)

	status, _ := post(t, srv, "/astar/update_light_client", map[string]any{"header": "0x02", "proof": "0x76616c6964"})
	require.Equal(t, http.StatusOK, status)

	status, _ = post(t, srv, "/astar/transfer_treasury_fungible_token", map[string]any{
		"message":      map[string]any{"token_id": "0x1", "amount": 300, "receiver_address": "0x3", "contract_sequence": 1},
		"block_height": 1,
		"proof":        "0x76616c6964",
	})
	require.Equal(t, http.StatusOK, status)

	status, _ = post(t, srv, "/astar/deliver_custom_order", map[string]any{
		"contract_name": "simple_counter",
		"message":       map[string]any{"message": "increment", "contract_sequence": 2},
		"block_height":  1,
		"proof":         "0x76616c6964",
	})
	require.Equal(t, http.StatusOK, status)
}

func TestErrors(t *testing.T) {
	chain := newMockChain(t, "astar")
	chain.EXPECT().TransferTreasuryNonFungibleToken(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.Wrap(core.ErrAlreadyDelivered, "sequence 1"))
	chain.EXPECT().CheckConnection(gomock.Any()).Return(&core.ConnectionError{Chain: "astar", Reason: errors.New("refused")})
	chain.EXPECT().UpdateLightClient(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&core.UpdateError{Chain: "ethereum", Height: 1, Reason: core.ErrInvalidProof})
	srv := newTestServer(t, chain)

	cases := []struct {
		name   string
		path   string
		body   any
		status int
		code   uint32
	}{
		{"unknown chain", "/shiden/get_chain_name", nil, http.StatusNotFound, core.ErrorCode(core.ErrChainNotFound)},
		{"unknown method", "/astar/launch", nil, http.StatusNotImplemented, core.ErrorCode(core.ErrNotSupported)},
		{"missing body", "/astar/update_light_client", nil, http.StatusBadRequest, core.ErrorCode(core.ErrInvalidMessage)},
		{"malformed body", "/astar/update_light_client", map[string]any{"header": 1}, http.StatusBadRequest, core.ErrorCode(core.ErrInvalidMessage)},
		{"already delivered", "/astar/transfer_treasury_non_fungible_token", map[string]any{
			"message":      map[string]any{"collection_address": "0xc", "token_index": "1", "receiver_address": "0x3", "contract_sequence": 1},
			"block_height": 1,
			"proof":        "0x00",
		}, http.StatusConflict, core.ErrorCode(core.ErrAlreadyDelivered)},
		{"connection", "/astar/check_connection", nil, http.StatusServiceUnavailable, 1},
		{"rejected update", "/astar/update_light_client", map[string]any{"header": "0x02", "proof": "0x00"}, http.StatusUnauthorized, core.ErrorCode(core.ErrInvalidProof)},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			status, r := post(t, srv, c.path, c.body)
			require.Equal(t, c.status, status)
			require.NotNil(t, r.Error)
			require.Equal(t, c.code, r.Error.Code)
		})
	}
}

func TestStatusCode(t *testing.T) {
	require.Equal(t, http.StatusInternalServerError, statusCode(errors.New("boom")))
	require.Equal(t, http.StatusBadRequest, statusCode(core.ErrSequenceGap))
	require.Equal(t, http.StatusBadRequest, statusCode(&core.VerifyError{Chain: "ethereum", Reason: core.ErrChainMismatch}))
}
