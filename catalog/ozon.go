package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ozon-tools/ozon-app-sheets/log"
)

const (
	PRODUCT_LIST = "/v3/product/list"
	PRODUCT_INFO = "/v3/product/info/list"
)

// Ozon fetches the seller catalog from the Ozon Seller API.
type Ozon struct {
	URL      string
	ClientID string
	APIKey   string
	PageSize int

	client *http.Client
}

type productListRequest struct {
	Filter struct {
		Visibility string `json:"visibility"`
	} `json:"filter"`
	LastID string `json:"last_id"`
	Limit  int    `json:"limit"`
}

type productListResponse struct {
	Result struct {
		Items []struct {
			ProductID int64  `json:"product_id"`
			OfferID   string `json:"offer_id"`
		} `json:"items"`
		Total  int    `json:"total"`
		LastID string `json:"last_id"`
	} `json:"result"`
}

type productInfoRequest struct {
	OfferID []string `json:"offer_id"`
}

type productInfoResponse struct {
	Items []struct {
		ID      int64  `json:"id"`
		OfferID string `json:"offer_id"`
		Name    string `json:"name"`
		Price   string `json:"price"`
		Stocks  struct {
			Stocks []struct {
				Present  int    `json:"present"`
				Reserved int    `json:"reserved"`
				Type     string `json:"type"`
			} `json:"stocks"`
		} `json:"stocks"`
	} `json:"items"`
}

func NewOzon(url, clientID, apiKey string) *Ozon {
	return &Ozon{
		URL:      strings.TrimSuffix(url, "/"),
		ClientID: clientID,
		APIKey:   apiKey,
		PageSize: 1000,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

func (o *Ozon) ListAvailableProducts(ctx context.Context) ([]Product, error) {
	log.Infof("Retrieving products from Ozon (%v)", o.URL)

	offers, err := o.offers(ctx)
	if err != nil {
		return nil, &UnavailableError{Source: "ozon", Err: err}
	}

	log.Debugf("Ozon catalog lists %v offers", len(offers))

	products := []Product{}
	for start := 0; start < len(offers); start += o.pageSize() {
		end := min(start+o.pageSize(), len(offers))

		list, err := o.products(ctx, offers[start:end])
		if err != nil {
			return nil, &UnavailableError{Source: "ozon", Err: err}
		}

		products = append(products, list...)
	}

	available := Available(products)

	log.Infof("Found %v available products", len(available))

	return available, nil
}

func (o *Ozon) offers(ctx context.Context) ([]string, error) {
	offers := []string{}
	seen := map[string]bool{}
	last := ""

	for {
		rq := productListRequest{
			LastID: last,
			Limit:  o.pageSize(),
		}

		rq.Filter.Visibility = "ALL"

		var response productListResponse
		if err := o.post(ctx, PRODUCT_LIST, rq, &response); err != nil {
			return nil, err
		}

		for _, item := range response.Result.Items {
			if seen[item.OfferID] {
				log.Warnf("Ignoring duplicate offer %v", item.OfferID)
				continue
			}

			seen[item.OfferID] = true
			offers = append(offers, item.OfferID)
		}

		next := response.Result.LastID
		if len(response.Result.Items) < o.pageSize() || next == "" || next == last {
			break
		}

		last = next
	}

	return offers, nil
}

// products fetches the details for a batch of offers and returns them in the order of the batch.
func (o *Ozon) products(ctx context.Context, offers []string) ([]Product, error) {
	var response productInfoResponse
	if err := o.post(ctx, PRODUCT_INFO, productInfoRequest{OfferID: offers}, &response); err != nil {
		return nil, err
	}

	index := map[string]Product{}
	for _, item := range response.Items {
		price := decimal.Zero
		if strings.TrimSpace(item.Price) != "" {
			if v, err := decimal.NewFromString(strings.TrimSpace(item.Price)); err != nil {
				return nil, fmt.Errorf("invalid price '%v' for offer %v (%w)", item.Price, item.OfferID, err)
			} else {
				price = v
			}
		}

		stock := 0
		for _, s := range item.Stocks.Stocks {
			stock += s.Present
		}

		index[item.OfferID] = Product{
			ID:    item.OfferID,
			Name:  item.Name,
			Price: price,
			Stock: stock,
		}
	}

	products := []Product{}
	for _, offer := range offers {
		if p, ok := index[offer]; ok {
			products = append(products, p)
		} else {
			log.Warnf("No product information returned for offer %v", offer)
		}
	}

	return products, nil
}

func (o *Ozon) post(ctx context.Context, path string, request any, response any) error {
	body, err := json.Marshal(request)
	if err != nil {
		return err
	}

	rq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.URL+path, bytes.NewReader(body))
	if err != nil {
		return err
	}

	rq.Header.Set("Client-Id", o.ClientID)
	rq.Header.Set("Api-Key", o.APIKey)
	rq.Header.Set("Content-Type", "application/json")
	rq.Header.Set("Accept", "application/json")

	rsp, err := o.httpClient().Do(rq)
	if err != nil {
		return err
	}

	defer rsp.Body.Close()

	if rsp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(rsp.Body, 512))
		return fmt.Errorf("%v returned %v (%v)", path, rsp.Status, strings.TrimSpace(string(msg)))
	}

	if err := json.NewDecoder(rsp.Body).Decode(response); err != nil {
		return fmt.Errorf("invalid %v response (%w)", path, err)
	}

	return nil
}

func (o *Ozon) pageSize() int {
	if o.PageSize > 0 {
		return o.PageSize
	}

	return 1000
}

func (o *Ozon) httpClient() *http.Client {
	if o.client != nil {
		return o.client
	}

	return http.DefaultClient
}
