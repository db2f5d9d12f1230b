package opendata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

func clientFor(serverURL string, cache ResponseCache) *Client {
	svc := NewService(ServiceConfig{
		MachineBaseURL:  serverURL,
		DataBaseURL:     serverURL,
		NongsaroBaseURL: serverURL,
		WeatherBaseURL:  serverURL,
		Keys:            Keys{Machine: "mk", Data: "dk", Nongsaro: "nk", Weather: "wk"},
	})
	return NewClient(svc, cache, nil)
}

func TestSpecialCropsRefetchesLargeListings(t *testing.T) {
	var requests []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.Query().Get("pSize"))
		fmt.Fprintf(w, `{"%s":{"totalCnt":120,"row":[]}}`, GridSpecialCrops)
	}))
	defer server.Close()

	client := clientFor(server.URL, nil)
	body, err := client.SpecialCrops(context.Background(), "2020", "전라남도")
	if err != nil {
		t.Fatalf("special crops failed: %v", err)
	}
	if len(requests) != 2 {
		t.Fatalf("expected refetch (2 requests), got %d", len(requests))
	}
	if requests[0] != "50" || requests[1] != "120" {
		t.Errorf("expected pSize 50 then 120, got %v", requests)
	}
	if _, ok := body[GridSpecialCrops]; !ok {
		t.Error("expected grid envelope in response")
	}
}

func TestSpecialCropsSmallListingSingleFetch(t *testing.T) {
	var count int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count++
		fmt.Fprintf(w, `{"%s":{"totalCnt":7,"row":[]}}`, GridSpecialCrops)
	}))
	defer server.Close()

	client := clientFor(server.URL, nil)
	if _, err := client.SpecialCrops(context.Background(), "2020", "전라남도"); err != nil {
		t.Fatalf("special crops failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected a single request, got %d", count)
	}
}

func TestEmptyHousesStringTotalCnt(t *testing.T) {
	var requests []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests = append(requests, r.URL.Query().Get("pSize"))
		fmt.Fprintf(w, `{"%s":{"totalCnt":"88","row":[]}}`, GridEmptyHouses)
	}))
	defer server.Close()

	client := clientFor(server.URL, nil)
	if _, err := client.EmptyHouses(context.Background(), "강원도", "F", "DLTC01"); err != nil {
		t.Fatalf("empty houses failed: %v", err)
	}
	if len(requests) != 2 || requests[1] != "88" {
		t.Errorf("expected refetch with pSize 88, got %v", requests)
	}
}

func TestEducationFarmsFlattensXML(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<response><body><items><totalCount>2</totalCount>`+
			`<item><cntntsNo>100</cntntsNo><cntntsSj>Farm A</cntntsSj><locplc>Jeju</locplc><thema>fruit</thema></item>`+
			`<item><cntntsNo>101</cntntsNo><cntntsSj>Farm B</cntntsSj><locplc>Busan</locplc><thema>rice</thema></item>`+
			`</items></body></response>`)
	}))
	defer server.Close()

	client := clientFor(server.URL, nil)
	list, err := client.EducationFarms(context.Background(), 1, "", "")
	if err != nil {
		t.Fatalf("education farms failed: %v", err)
	}
	if list.TotalCount != 2 {
		t.Errorf("expected totalCount 2, got %d", list.TotalCount)
	}
	if len(list.Data) != 2 {
		t.Fatalf("expected 2 farms, got %d", len(list.Data))
	}
	if list.Data[0].CntntsNo != "100" || list.Data[0].CntntsSj != "Farm A" {
		t.Errorf("unexpected first farm: %+v", list.Data[0])
	}
	if list.Data[1].Locplc != "Busan" {
		t.Errorf("unexpected second farm: %+v", list.Data[1])
	}
}

func TestEducationFarmsDetailStripsTags(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<response><body><item>`+
			`<cntntsNo>100</cntntsNo><cntntsSj>Farm A</cntntsSj>`+
			`<cn>&lt;p&gt;Welcome to &lt;b&gt;our farm&lt;/b&gt;&lt;/p&gt;</cn>`+
			`</item></body></response>`)
	}))
	defer server.Close()

	client := clientFor(server.URL, nil)
	detail, err := client.EducationFarmsDetail(context.Background(), "100")
	if err != nil {
		t.Fatalf("detail failed: %v", err)
	}
	if detail.Cn != "Welcome to our farm" {
		t.Errorf("expected tags stripped, got %q", detail.Cn)
	}
}

func TestWeekFarmInfo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<response><body><items>`+
			`<item><subject>Week 1</subject><regDt>20200101</regDt><fileName>w1.pdf</fileName><downUrl>http://x/w1.pdf</downUrl></item>`+
			`</items></body></response>`)
	}))
	defer server.Close()

	client := clientFor(server.URL, nil)
	info, err := client.WeekFarmInfo(context.Background(), 1)
	if err != nil {
		t.Fatalf("week farm info failed: %v", err)
	}
	if len(info) != 1 {
		t.Fatalf("expected 1 item, got %d", len(info))
	}
	if info[0].Subject != "Week 1" || info[0].DownURL != "http://x/w1.pdf" {
		t.Errorf("unexpected item: %+v", info[0])
	}
}

type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	payload, ok := m.entries[key]
	return payload, ok, nil
}

func (m *memoryCache) Set(_ context.Context, key string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entries == nil {
		m.entries = make(map[string][]byte)
	}
	m.entries[key] = payload
	return nil
}

func TestFetchServesFromCache(t *testing.T) {
	var count int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count++
		fmt.Fprint(w, `{"resultCode":"00"}`)
	}))
	defer server.Close()

	client := clientFor(server.URL, &memoryCache{})
	for i := 0; i < 3; i++ {
		if _, err := client.Machines(context.Background(), "경기도", ""); err != nil {
			t.Fatalf("machines fetch %d failed: %v", i, err)
		}
	}
	if count != 1 {
		t.Errorf("expected a single upstream request, got %d", count)
	}
}

func TestFetchUpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	client := clientFor(server.URL, nil)
	if _, err := client.Machines(context.Background(), "경기도", ""); err == nil {
		t.Error("expected error for upstream 500")
	}
}

func TestStripTags(t *testing.T) {
	got := StripTags("<p>hello <b>world</b></p>")
	if got != "hello world" {
		t.Errorf("expected plain text, got %q", got)
	}
	if got := StripTags("no markup"); got != "no markup" {
		t.Errorf("expected passthrough, got %q", got)
	}
}
