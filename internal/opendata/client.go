package opendata

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// ResponseCache fronts upstream fetches; the redis implementation lives
// in internal/cache.
type ResponseCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte) error
}

// Client fetches and reshapes upstream responses. JSON endpoints pass
// through unchanged; XML endpoints are flattened into the shapes the
// mobile clients already consume.
type Client struct {
	httpClient *http.Client
	svc        *Service
	cache      ResponseCache
	log        *zap.Logger
}

func NewClient(svc *Service, cache ResponseCache, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		svc:        svc,
		cache:      cache,
		log:        log,
	}
}

type EducationFarm struct {
	CntntsNo    string `json:"cntntsNo"`
	CntntsSj    string `json:"cntntsSj"`
	AdstrdName  string `json:"adstrdName"`
	Locplc      string `json:"locplc"`
	Telno       string `json:"telno"`
	ImgURL      string `json:"imgUrl"`
	ThumbImgURL string `json:"thumbImgUrl"`
	Thema       string `json:"thema"`
}

type EducationFarmList struct {
	TotalCount int             `json:"totalCount"`
	Data       []EducationFarm `json:"data"`
}

type EducationFarmDetail struct {
	CntntsNo      string `json:"cntntsNo"`
	CntntsSj      string `json:"cntntsSj"`
	Locplc        string `json:"locplc"`
	Thema         string `json:"thema"`
	AppnYear      string `json:"appnYear"`
	URL           string `json:"url"`
	Telno         string `json:"telno"`
	CrtfcYearInfo string `json:"crtfcYearInfo"`
	Cn            string `json:"cn"`
	ImgURL1       string `json:"imgUrl1"`
	ImgURL2       string `json:"imgUrl2"`
	ImgURL3       string `json:"imgUrl3"`
	ImgURL4       string `json:"imgUrl4"`
	ImgURL5       string `json:"imgUrl5"`
	ImgURL6       string `json:"imgUrl6"`
}

type WeekFarmInfo struct {
	Subject  string `json:"subject"`
	RegDt    string `json:"regDt"`
	FileName string `json:"fileName"`
	DownURL  string `json:"downUrl"`
}

func (c *Client) Machines(ctx context.Context, ctprvn, fchKnd string) (map[string]interface{}, error) {
	return c.fetchJSON(ctx, c.svc.MachineURL(ctprvn, fchKnd))
}

func (c *Client) Dictionary(ctx context.Context, clNm string) (map[string]interface{}, error) {
	return c.fetchJSON(ctx, c.svc.DictionaryURL(clNm))
}

// SpecialCrops proxies the special crop survey. The upstream caps pages
// at 50 rows, so listings with a larger totalCnt are refetched once with
// the full row count.
func (c *Client) SpecialCrops(ctx context.Context, year, ctprvn string) (map[string]interface{}, error) {
	body, err := c.fetchJSON(ctx, c.svc.SpecialCropsURL(year, ctprvn, 0))
	if err != nil {
		return nil, err
	}
	if total := gridTotalCount(body, GridSpecialCrops); total > defaultRowCount {
		return c.fetchJSON(ctx, c.svc.SpecialCropsURL(year, ctprvn, total))
	}
	return body, nil
}

func (c *Client) EmptyHouses(ctx context.Context, sidonm, gubuncd, dealtypecd string) (map[string]interface{}, error) {
	body, err := c.fetchJSON(ctx, c.svc.EmptyHousesURL(sidonm, gubuncd, dealtypecd, 0))
	if err != nil {
		return nil, err
	}
	if total := gridTotalCount(body, GridEmptyHouses); total > defaultRowCount {
		return c.fetchJSON(ctx, c.svc.EmptyHousesURL(sidonm, gubuncd, dealtypecd, total))
	}
	return body, nil
}

func (c *Client) EducationFarms(ctx context.Context, page int, sType, sText string) (*EducationFarmList, error) {
	raw, err := c.fetchRaw(ctx, c.svc.EducationFarmsURL(page, sType, sText))
	if err != nil {
		return nil, err
	}

	var envelope eduFarmListEnvelope
	if err := xml.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("parse education farms xml failed: %w", err)
	}

	list := &EducationFarmList{
		TotalCount: envelope.Body.Items.TotalCount,
		Data:       make([]EducationFarm, 0, len(envelope.Body.Items.Item)),
	}
	for _, item := range envelope.Body.Items.Item {
		list.Data = append(list.Data, EducationFarm{
			CntntsNo:    item.CntntsNo,
			CntntsSj:    item.CntntsSj,
			AdstrdName:  item.AdstrdName,
			Locplc:      item.Locplc,
			Telno:       item.Telno,
			ImgURL:      item.ImgURL,
			ThumbImgURL: item.ThumbImgURL,
			Thema:       item.Thema,
		})
	}
	return list, nil
}

func (c *Client) EducationFarmsDetail(ctx context.Context, cntntsNo string) (*EducationFarmDetail, error) {
	raw, err := c.fetchRaw(ctx, c.svc.EducationFarmsDetailURL(cntntsNo))
	if err != nil {
		return nil, err
	}

	var envelope eduFarmDetailEnvelope
	if err := xml.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("parse education farm detail xml failed: %w", err)
	}

	item := envelope.Body.Item
	return &EducationFarmDetail{
		CntntsNo:      item.CntntsNo,
		CntntsSj:      item.CntntsSj,
		Locplc:        item.Locplc,
		Thema:         item.Thema,
		AppnYear:      item.AppnYear,
		URL:           item.URL,
		Telno:         item.Telno,
		CrtfcYearInfo: item.CrtfcYearInfo,
		Cn:            StripTags(item.Cn),
		ImgURL1:       item.ImgURL1,
		ImgURL2:       item.ImgURL2,
		ImgURL3:       item.ImgURL3,
		ImgURL4:       item.ImgURL4,
		ImgURL5:       item.ImgURL5,
		ImgURL6:       item.ImgURL6,
	}, nil
}

func (c *Client) WeekFarmInfo(ctx context.Context, page int) ([]WeekFarmInfo, error) {
	raw, err := c.fetchRaw(ctx, c.svc.WeekFarmInfoURL(page))
	if err != nil {
		return nil, err
	}

	var envelope weekFarmEnvelope
	if err := xml.Unmarshal(raw, &envelope); err != nil {
		return nil, fmt.Errorf("parse week farm info xml failed: %w", err)
	}

	info := make([]WeekFarmInfo, 0, len(envelope.Body.Items.Item))
	for _, item := range envelope.Body.Items.Item {
		info = append(info, WeekFarmInfo{
			Subject:  item.Subject,
			RegDt:    item.RegDt,
			FileName: item.FileName,
			DownURL:  item.DownURL,
		})
	}
	return info, nil
}

// Weather proxies the KMA ultra-short-range observation for a grid cell.
// Observations are published on the hour and lag ~40 minutes, so the
// base time is snapped back one hour inside that window.
func (c *Client) Weather(ctx context.Context, nx, ny int) (map[string]interface{}, error) {
	now := time.Now()
	if now.Minute() < 40 {
		now = now.Add(-time.Hour)
	}
	baseDate := now.Format("20060102")
	baseTime := now.Format("1504")[:2] + "00"
	return c.fetchJSON(ctx, c.svc.WeatherURL(nx, ny, baseDate, baseTime))
}

func (c *Client) fetchJSON(ctx context.Context, url string) (map[string]interface{}, error) {
	raw, err := c.fetchRaw(ctx, url)
	if err != nil {
		return nil, err
	}
	var body map[string]interface{}
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("parse upstream json failed: %w", err)
	}
	return body, nil
}

func (c *Client) fetchRaw(ctx context.Context, url string) ([]byte, error) {
	if c.cache != nil {
		if cached, hit, err := c.cache.Get(ctx, url); err == nil && hit {
			return cached, nil
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build upstream request failed: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read upstream response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("upstream status %d: %s", resp.StatusCode, string(raw))
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, url, raw); err != nil {
			c.log.Warn("cache upstream response failed", zap.Error(err))
		}
	}
	return raw, nil
}

// gridTotalCount digs totalCnt out of a data portal grid envelope. The
// upstream serializes it inconsistently, sometimes as a number and
// sometimes as a string.
func gridTotalCount(body map[string]interface{}, grid string) int {
	gridBody, ok := body[grid].(map[string]interface{})
	if !ok {
		return 0
	}
	switch v := gridBody["totalCnt"].(type) {
	case float64:
		return int(v)
	case string:
		n, _ := strconv.Atoi(v)
		return n
	}
	return 0
}

// StripTags flattens an HTML fragment to its text content.
func StripTags(fragment string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return fragment
	}
	return strings.TrimSpace(doc.Text())
}
