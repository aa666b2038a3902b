package node

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common/lru"
	jsoniter "github.com/json-iterator/go"
	"github.com/valyala/fasthttp"

	mtypes "github.com/ergowatch/ergo-indexer/chain/types"
)

const blockCacheLimit = 256

var jsonc = jsoniter.ConfigCompatibleWithStandardLibrary

// HTTPClient talks to a single Ergo node over its REST API using fasthttp, the
// same way ghjramos-aistore drives outbound object-store calls: one shared
// *fasthttp.Client, fasthttp.AcquireRequest/AcquireResponse per call. Recently
// fetched blocks are kept in an LRU cache, mirroring HeaderChain's headerCache.
type HTTPClient struct {
	baseURL string
	hc      *fasthttp.Client
	timeout time.Duration

	blocks *lru.Cache[string, mtypes.Block]
}

func NewHTTPClient(baseURL string, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		hc:      &fasthttp.Client{Name: "ergoidx"},
		timeout: timeout,
		blocks:  lru.NewCache[string, mtypes.Block](blockCacheLimit),
	}
}

func (c *HTTPClient) GetHeight(ctx context.Context) (uint32, error) {
	var info struct {
		FullHeight uint32 `json:"fullHeight"`
	}
	if err := c.getJSON(ctx, "/info", &info); err != nil {
		return 0, err
	}
	return info.FullHeight, nil
}

func (c *HTTPClient) GetHeaderAtHeight(ctx context.Context, height uint32) (mtypes.Header, error) {
	var ids []string
	if err := c.getJSON(ctx, "/blocks/at/"+strconv.FormatUint(uint64(height), 10), &ids); err != nil {
		return mtypes.Header{}, err
	}
	if len(ids) == 0 {
		return mtypes.Header{}, ErrNotFound
	}

	var h mtypes.Header
	if err := c.getJSON(ctx, "/blocks/"+ids[0]+"/header", &h); err != nil {
		return mtypes.Header{}, err
	}
	return h, nil
}

func (c *HTTPClient) GetBlock(ctx context.Context, headerID string) (mtypes.Block, error) {
	if b, ok := c.blocks.Get(headerID); ok {
		return b, nil
	}

	var b mtypes.Block
	if err := c.getJSON(ctx, "/blocks/"+headerID, &b); err != nil {
		return mtypes.Block{}, err
	}
	c.blocks.Add(headerID, b)
	return b, nil
}

func (c *HTTPClient) GetGenesisBoxes(ctx context.Context) ([]mtypes.GenesisBox, error) {
	var boxes []mtypes.GenesisBox
	if err := c.getJSON(ctx, "/utxo/genesis", &boxes); err != nil {
		return nil, err
	}
	return boxes, nil
}

func (c *HTTPClient) getJSON(ctx context.Context, path string, dst any) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(c.baseURL + path)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "application/json")

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(c.timeout)
	}

	if err := c.hc.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("node: request %s: %w", path, err)
	}

	switch resp.StatusCode() {
	case fasthttp.StatusOK:
	case fasthttp.StatusNotFound:
		return ErrNotFound
	default:
		return fmt.Errorf("node: %s returned status %d", path, resp.StatusCode())
	}

	if err := jsonc.Unmarshal(resp.Body(), dst); err != nil {
		return fmt.Errorf("node: decode %s: %w", path, err)
	}
	return nil
}
