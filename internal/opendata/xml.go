package opendata

import "encoding/xml"

// The nongsaro endpoints answer with a shallow XML envelope; these types
// mirror the body>items>item nesting of the upstream documents.

type eduFarmListEnvelope struct {
	XMLName xml.Name `xml:"response"`
	Body    struct {
		Items struct {
			TotalCount int               `xml:"totalCount"`
			Item       []eduFarmListItem `xml:"item"`
		} `xml:"items"`
	} `xml:"body"`
}

type eduFarmListItem struct {
	CntntsNo    string `xml:"cntntsNo"`
	CntntsSj    string `xml:"cntntsSj"`
	AdstrdName  string `xml:"adstrdName"`
	Locplc      string `xml:"locplc"`
	Telno       string `xml:"telno"`
	ImgURL      string `xml:"imgUrl"`
	ThumbImgURL string `xml:"thumbImgUrl"`
	Thema       string `xml:"thema"`
}

type eduFarmDetailEnvelope struct {
	XMLName xml.Name `xml:"response"`
	Body    struct {
		Item eduFarmDetailItem `xml:"item"`
	} `xml:"body"`
}

type eduFarmDetailItem struct {
	CntntsNo      string `xml:"cntntsNo"`
	CntntsSj      string `xml:"cntntsSj"`
	Locplc        string `xml:"locplc"`
	Thema         string `xml:"thema"`
	AppnYear      string `xml:"appnYear"`
	URL           string `xml:"url"`
	Telno         string `xml:"telno"`
	CrtfcYearInfo string `xml:"crtfcYearInfo"`
	Cn            string `xml:"cn"`
	ImgURL1       string `xml:"imgUrl1"`
	ImgURL2       string `xml:"imgUrl2"`
	ImgURL3       string `xml:"imgUrl3"`
	ImgURL4       string `xml:"imgUrl4"`
	ImgURL5       string `xml:"imgUrl5"`
	ImgURL6       string `xml:"imgUrl6"`
}

type weekFarmEnvelope struct {
	XMLName xml.Name `xml:"response"`
	Body    struct {
		Items struct {
			Item []weekFarmItem `xml:"item"`
		} `xml:"items"`
	} `xml:"body"`
}

type weekFarmItem struct {
	Subject  string `xml:"subject"`
	RegDt    string `xml:"regDt"`
	FileName string `xml:"fileName"`
	DownURL  string `xml:"downUrl"`
}
