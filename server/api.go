package server

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/cockroachdb/errors"

	"github.com/hyperledger-labs/yui-colony/core"
)

type methodFunc func(ctx context.Context, chain core.Chain, params json.RawMessage) (any, error)

// methods are named after the adapter operations they call.
var methods = map[string]methodFunc{
	"get_chain_name":                          getChainName,
	"get_last_block":                          getLastBlock,
	"check_connection":                        checkConnection,
	"get_contract_list":                       getContractList,
	"get_relayer_account_info":                getRelayerAccountInfo,
	"get_light_client_header":                 getLightClientHeader,
	"get_treasury_fungible_token_balance":     getTreasuryFungibleTokenBalance,
	"get_treasury_non_fungible_token_balance": getTreasuryNonFungibleTokenBalance,
	"update_light_client":                     updateLightClient,
	"transfer_treasury_fungible_token":        transferTreasuryFungibleToken,
	"transfer_treasury_non_fungible_token":    transferTreasuryNonFungibleToken,
	"deliver_custom_order":                    deliverCustomOrder,
}

const maxRequestBytes = 1 << 20

func (srv *APIServer) handleMethod(w http.ResponseWriter, r *http.Request) {
	method, ok := methods[r.PathValue("method")]
	if !ok {
		srv.writeError(w, r, errors.Wrapf(core.ErrNotSupported, "method %q", r.PathValue("method")))
		return
	}
	chain, err := srv.chains.GetChain(r.PathValue("chain"))
	if err != nil {
		srv.writeError(w, r, err)
		return
	}
	var params json.RawMessage
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := dec.Decode(&params); err != nil && !errors.Is(err, io.EOF) {
		srv.writeError(w, r, errors.Wrapf(core.ErrInvalidMessage, "malformed request body: %v", err))
		return
	}
	data, err := method(r.Context(), chain, params)
	if err != nil {
		srv.writeError(w, r, err)
		return
	}
	srv.writeData(w, data)
}

func decodeParams(params json.RawMessage, v any) error {
	if len(params) == 0 {
		return errors.Wrap(core.ErrInvalidMessage, "missing request body")
	}
	if err := json.Unmarshal(params, v); err != nil {
		return errors.Wrapf(core.ErrInvalidMessage, "malformed request body: %v", err)
	}
	return nil
}

func getChainName(_ context.Context, chain core.Chain, _ json.RawMessage) (any, error) {
	return chain.ChainName(), nil
}

func getLastBlock(ctx context.Context, chain core.Chain, _ json.RawMessage) (any, error) {
	return chain.LastBlock(ctx)
}

func checkConnection(ctx context.Context, chain core.Chain, _ json.RawMessage) (any, error) {
	if err := chain.CheckConnection(ctx); err != nil {
		return nil, err
	}
	return struct{}{}, nil
}

func getContractList(ctx context.Context, chain core.Chain, _ json.RawMessage) (any, error) {
	return chain.ContractList(ctx)
}

func getRelayerAccountInfo(ctx context.Context, chain core.Chain, _ json.RawMessage) (any, error) {
	return chain.RelayerAccountInfo(ctx)
}

func getLightClientHeader(ctx context.Context, chain core.Chain, _ json.RawMessage) (any, error) {
	return chain.LightClientHeader(ctx)
}

func getTreasuryFungibleTokenBalance(ctx context.Context, chain core.Chain, _ json.RawMessage) (any, error) {
	return chain.TreasuryFungibleTokenBalance(ctx)
}

func getTreasuryNonFungibleTokenBalance(ctx context.Context, chain core.Chain, _ json.RawMessage) (any, error) {
	return chain.TreasuryNonFungibleTokenBalance(ctx)
}

type updateLightClientRequest struct {
	Header core.Header                 `json:"header"`
	Proof  core.BlockFinalizationProof `json:"proof"`
}

func updateLightClient(ctx context.Context, chain core.Chain, params json.RawMessage) (any, error) {
	var req updateLightClientRequest
	if err := decodeParams(params, &req); err != nil {
		return nil, err
	}
	if err := chain.UpdateLightClient(ctx, req.Header, req.Proof); err != nil {
		return nil, err
	}
	return struct{}{}, nil
}

type transferRequest[M any] struct {
	Message     M                `json:"message"`
	BlockHeight uint64           `json:"block_height"`
	Proof       core.MerkleProof `json:"proof"`
}

func transferTreasuryFungibleToken(ctx context.Context, chain core.Chain, params json.RawMessage) (any, error) {
	var req transferRequest[core.FungibleTokenTransfer]
	if err := decodeParams(params, &req); err != nil {
		return nil, err
	}
	if err := chain.TransferTreasuryFungibleToken(ctx, req.Message, req.BlockHeight, req.Proof); err != nil {
		return nil, err
	}
	return struct{}{}, nil
}

func transferTreasuryNonFungibleToken(ctx context.Context, chain core.Chain, params json.RawMessage) (any, error) {
	var req transferRequest[core.NonFungibleTokenTransfer]
	if err := decodeParams(params, &req); err != nil {
		return nil, err
	}
	if err := chain.TransferTreasuryNonFungibleToken(ctx, req.Message, req.BlockHeight, req.Proof); err != nil {
		return nil, err
	}
	return struct{}{}, nil
}

type deliverCustomOrderRequest struct {
	ContractName string `json:"contract_name"`
	transferRequest[core.Custom]
}

func deliverCustomOrder(ctx context.Context, chain core.Chain, params json.RawMessage) (any, error) {
	var req deliverCustomOrderRequest
	if err := decodeParams(params, &req); err != nil {
		return nil, err
	}
	if err := chain.DeliverCustomOrder(ctx, req.ContractName, req.Message, req.BlockHeight, req.Proof); err != nil {
		return nil, err
	}
	return struct{}{}, nil
}
