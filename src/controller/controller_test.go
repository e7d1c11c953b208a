package controller

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"NFTNavBackend/src/entity"
	"NFTNavBackend/src/errcode"
	"NFTNavBackend/src/service/svc"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func doRequest(t *testing.T, handler gin.HandlerFunc, method, path, target string, body string) envelope {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Handle(method, path, handler)

	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var resp envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestGetTokensHandlerInvalidContractID(t *testing.T) {
	serverCtx := svc.NewServerCtx()
	resp := doRequest(t, GetTokensHandler(serverCtx), http.MethodGet, "/tokens", "/tokens?contract_id=abc", "")
	assert.Equal(t, errcode.CodeInvalidParams, resp.Code)
}

func TestGetTokensHandlerInvalidLimit(t *testing.T) {
	serverCtx := svc.NewServerCtx()
	resp := doRequest(t, GetTokensHandler(serverCtx), http.MethodGet, "/tokens", "/tokens?contract_id=1&limit=-5", "")
	assert.Equal(t, errcode.CodeInvalidParams, resp.Code)
}

func TestGetTokenDetailHandlerInvalidParams(t *testing.T) {
	serverCtx := svc.NewServerCtx()
	resp := doRequest(t, GetTokenDetailHandler(serverCtx), http.MethodGet,
		"/tokens/:contract_id/:token_id", "/tokens/zero/1", "")
	assert.Equal(t, errcode.CodeInvalidParams, resp.Code)
}

func TestUpdateVisibilityHandlerInvalidTab(t *testing.T) {
	serverCtx := svc.NewServerCtx()
	resp := doRequest(t, UpdateVisibilityHandler(serverCtx), http.MethodPost,
		"/collections/:contract_id/visibility", "/collections/1/visibility",
		`{"tab": "bogus"}`)
	assert.Equal(t, errcode.CodeInvalidParams, resp.Code)
}

func TestGetListingsHandlerInvalidPrice(t *testing.T) {
	serverCtx := svc.NewServerCtx()
	resp := doRequest(t, GetListingsHandler(serverCtx), http.MethodGet,
		"/mp/listings", "/mp/listings?min_price=abc", "")
	assert.Equal(t, errcode.CodeInvalidParams, resp.Code)
}

func TestParseTokenRefs(t *testing.T) {
	refs, err := parseTokenRefs("1_5, 1_6,2_foo")
	require.NoError(t, err)
	assert.Equal(t, []entity.TokenRef{
		{ContractID: 1, TokenID: "5"},
		{ContractID: 1, TokenID: "6"},
		{ContractID: 2, TokenID: "foo"},
	}, refs)

	_, err = parseTokenRefs("nope")
	assert.Error(t, err)
	_, err = parseTokenRefs("abc_5")
	assert.Error(t, err)
	_, err = parseTokenRefs("1_")
	assert.Error(t, err)
}
