// Package opendata proxies the government open-data APIs the mobile
// clients consume: farm machine rentals, the crop dictionary, special
// crop and empty house listings, the education farm directory, weekly
// farming info, and the KMA weather observation grid.
package opendata

import (
	"fmt"
	"net/url"
	"strconv"
)

// Upstream dataset grid identifiers.
const (
	GridSpecialCrops = "Grid_20171122000000000468_1"
	GridEmptyHouses  = "Grid_20161013000000000308_1"
)

// defaultRowCount is the upstream default page size; listings with a
// larger totalCnt are refetched with the full row count.
const defaultRowCount = 50

type Keys struct {
	Machine  string
	Data     string
	Nongsaro string
	Weather  string
}

// Service builds the upstream request URLs. Keys and base URLs come from
// configuration so staging can point at mock upstreams.
type Service struct {
	machineBaseURL  string
	dataBaseURL     string
	nongsaroBaseURL string
	weatherBaseURL  string
	keys            Keys
}

type ServiceConfig struct {
	MachineBaseURL  string
	DataBaseURL     string
	NongsaroBaseURL string
	WeatherBaseURL  string
	Keys            Keys
}

func NewService(cfg ServiceConfig) *Service {
	return &Service{
		machineBaseURL:  cfg.MachineBaseURL,
		dataBaseURL:     cfg.DataBaseURL,
		nongsaroBaseURL: cfg.NongsaroBaseURL,
		weatherBaseURL:  cfg.WeatherBaseURL,
		keys:            cfg.Keys,
	}
}

// MachineURL lists farm machine rental offices for one province; fchKnd
// optionally narrows by machine kind.
func (s *Service) MachineURL(ctprvn, fchKnd string) string {
	q := url.Values{}
	q.Set("serviceKey", s.keys.Machine)
	q.Set("CTPRVN", ctprvn)
	if fchKnd != "" {
		q.Set("FCH_KND", fchKnd)
	}
	q.Set("_type", "json")
	return s.machineBaseURL + "/machineRentOffice?" + q.Encode()
}

func (s *Service) DictionaryURL(clNm string) string {
	q := url.Values{}
	q.Set("serviceKey", s.keys.Data)
	q.Set("CL_NM", clNm)
	q.Set("_type", "json")
	return s.dataBaseURL + "/cropDictionary?" + q.Encode()
}

func (s *Service) SpecialCropsURL(year, ctprvn string, rowCount int) string {
	if rowCount <= 0 {
		rowCount = defaultRowCount
	}
	q := url.Values{}
	q.Set("KEY", s.keys.Data)
	q.Set("Type", "json")
	q.Set("pIndex", "1")
	q.Set("pSize", strconv.Itoa(rowCount))
	q.Set("EXMN_YY", year)
	q.Set("CTPRVN_NM", ctprvn)
	return fmt.Sprintf("%s/%s?%s", s.dataBaseURL, GridSpecialCrops, q.Encode())
}

func (s *Service) EmptyHousesURL(sidonm, gubuncd, dealtypecd string, rowCount int) string {
	if rowCount <= 0 {
		rowCount = defaultRowCount
	}
	q := url.Values{}
	q.Set("KEY", s.keys.Data)
	q.Set("Type", "json")
	q.Set("pIndex", "1")
	q.Set("pSize", strconv.Itoa(rowCount))
	q.Set("SIDONM", sidonm)
	q.Set("GUBUNCD", gubuncd)
	q.Set("DEALTYPECD", dealtypecd)
	return fmt.Sprintf("%s/%s?%s", s.dataBaseURL, GridEmptyHouses, q.Encode())
}

// EducationFarmsURL lists certified education farms; sType/sText filter by
// theme, region, or title.
func (s *Service) EducationFarmsURL(page int, sType, sText string) string {
	if page < 1 {
		page = 1
	}
	q := url.Values{}
	q.Set("apiKey", s.keys.Nongsaro)
	q.Set("pageNo", strconv.Itoa(page))
	if sType != "" {
		q.Set("sType", sType)
		q.Set("sText", sText)
	}
	return s.nongsaroBaseURL + "/eduFarm/eduFarmLst?" + q.Encode()
}

func (s *Service) EducationFarmsDetailURL(cntntsNo string) string {
	q := url.Values{}
	q.Set("apiKey", s.keys.Nongsaro)
	q.Set("cntntsNo", cntntsNo)
	return s.nongsaroBaseURL + "/eduFarm/eduFarmDtl?" + q.Encode()
}

func (s *Service) WeekFarmInfoURL(page int) string {
	if page < 1 {
		page = 1
	}
	q := url.Values{}
	q.Set("apiKey", s.keys.Nongsaro)
	q.Set("pageNo", strconv.Itoa(page))
	return s.nongsaroBaseURL + "/weekFarmInfo/weekFarmInfoLst?" + q.Encode()
}

// WeatherURL queries the KMA ultra-short-range observation for one
// forecast grid cell.
func (s *Service) WeatherURL(nx, ny int, baseDate, baseTime string) string {
	q := url.Values{}
	q.Set("serviceKey", s.keys.Weather)
	q.Set("dataType", "JSON")
	q.Set("base_date", baseDate)
	q.Set("base_time", baseTime)
	q.Set("nx", strconv.Itoa(nx))
	q.Set("ny", strconv.Itoa(ny))
	return s.weatherBaseURL + "/getUltraSrtNcst?" + q.Encode()
}
