package importer

import (
	"strings"
	"testing"
)

const csvHeader = "externalId,source,url,title,address,price,bedrooms,isNoFee"

func csvBatch(rows ...string) string {
	return csvHeader + "\n" + strings.Join(rows, "\n")
}

func TestParseCSV_ValidBatch(t *testing.T) {
	data := csvBatch(
		"se-1,streeteasy,https://streeteasy.com/1,Studio in LES,100 Delancey St,2400,0,true",
		"se-2,streeteasy,https://streeteasy.com/2,2BR in Astoria,30-10 Broadway,3100,2,false",
	)

	result, err := ParseCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ParseCSV() failed: %v", err)
	}
	if len(result.Valid) != 2 || len(result.Errors) != 0 {
		t.Fatalf("got %d valid / %d errors, want 2 / 0", len(result.Valid), len(result.Errors))
	}

	first := result.Valid[0]
	if first.ExternalID != "se-1" {
		t.Errorf("ExternalID = %q, want se-1", first.ExternalID)
	}
	if first.PriceCents != 240000 {
		t.Errorf("PriceCents = %d, want 240000", first.PriceCents)
	}
	if !first.IsNoFee {
		t.Error("IsNoFee not parsed from csv string")
	}
	if first.Borough != "Manhattan" {
		t.Errorf("Borough = %q, want default Manhattan", first.Borough)
	}
}

func TestParseCSV_RowIsolation(t *testing.T) {
	rows := make([]string, 0, 10)
	for i := 0; i < 10; i++ {
		if i == 4 {
			// row 5 has no price
			rows = append(rows, "bad-5,zillow,https://zillow.com/5,Missing Price,1 Bad St,,1,false")
			continue
		}
		rows = append(rows, strings.Join([]string{
			"ok-" + string(rune('0'+i)),
			"zillow",
			"https://zillow.com/ok",
			"Fine Listing",
			"1 Good St",
			"2000",
			"1",
			"false",
		}, ","))
	}

	result, err := ParseCSV(strings.NewReader(csvBatch(rows...)))
	if err != nil {
		t.Fatalf("ParseCSV() failed: %v", err)
	}
	if len(result.Valid) != 9 {
		t.Fatalf("got %d valid, want 9", len(result.Valid))
	}
	if len(result.Errors) != 1 {
		t.Fatalf("got %d errors, want 1", len(result.Errors))
	}
	if result.Errors[0].Row != 5 {
		t.Errorf("error row = %d, want 5", result.Errors[0].Row)
	}
	if !strings.Contains(result.Errors[0].Error, "Price is required") {
		t.Errorf("unexpected row error: %s", result.Errors[0].Error)
	}
}

func TestParseCSV_DuplicateExternalID(t *testing.T) {
	data := csvBatch(
		"se-1,streeteasy,https://streeteasy.com/1,First,1 A St,2000,1,false",
		"se-1,streeteasy,https://streeteasy.com/1,Second,1 A St,2100,1,false",
	)

	result, err := ParseCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ParseCSV() failed: %v", err)
	}
	if len(result.Valid) != 1 {
		t.Fatalf("got %d valid, want 1", len(result.Valid))
	}
	if result.Valid[0].Title != "First" {
		t.Errorf("kept row title = %q, want First", result.Valid[0].Title)
	}
	if len(result.Errors) != 1 || result.Errors[0].Row != 2 {
		t.Fatalf("expected one error at row 2, got %+v", result.Errors)
	}
	if !strings.Contains(result.Errors[0].Error, "duplicate externalId") {
		t.Errorf("unexpected error: %s", result.Errors[0].Error)
	}
}

func TestParseCSV_EmptyInput(t *testing.T) {
	if _, err := ParseCSV(strings.NewReader("")); err == nil {
		t.Fatal("expected error for empty csv")
	}

	// header only is a valid, empty batch
	result, err := ParseCSV(strings.NewReader(csvHeader))
	if err != nil {
		t.Fatalf("ParseCSV() failed: %v", err)
	}
	if result.TotalRows() != 0 {
		t.Fatalf("got %d rows, want 0", result.TotalRows())
	}
}

func TestParseJSON_ArrayAndWrapper(t *testing.T) {
	bare := `[{"externalId":"z-1","source":"zillow","url":"https://zillow.com/1","title":"Loft","address":"9 Bond St","price":4200,"bedrooms":1}]`
	wrapped := `{"listings":` + bare + `}`

	for _, payload := range []string{bare, wrapped} {
		result, err := ParseJSON([]byte(payload))
		if err != nil {
			t.Fatalf("ParseJSON() failed: %v", err)
		}
		if len(result.Valid) != 1 {
			t.Fatalf("got %d valid, want 1", len(result.Valid))
		}
		if result.Valid[0].PriceCents != 420000 {
			t.Errorf("PriceCents = %d, want 420000", result.Valid[0].PriceCents)
		}
	}
}

func TestParseJSON_SingleObject(t *testing.T) {
	payload := `{"externalId":"z-9","source":"zillow","url":"https://zillow.com/9","title":"Walkup","address":"12 Mott St","price":3100,"bedrooms":2}`

	result, err := ParseJSON([]byte(payload))
	if err != nil {
		t.Fatalf("ParseJSON() failed: %v", err)
	}
	if len(result.Valid) != 1 || len(result.Errors) != 0 {
		t.Fatalf("got %d valid / %d errors, want 1 / 0", len(result.Valid), len(result.Errors))
	}
	if result.Valid[0].ExternalID != "z-9" {
		t.Errorf("ExternalID = %q, want z-9", result.Valid[0].ExternalID)
	}

	// an object that is not a listing is still a one-element batch; it fails
	// row validation instead of sinking the upload
	result, err = ParseJSON([]byte(`{"not":"a listing"}`))
	if err != nil {
		t.Fatalf("ParseJSON() failed: %v", err)
	}
	if len(result.Valid) != 0 || len(result.Errors) != 1 {
		t.Fatalf("got %d valid / %d errors, want 0 / 1", len(result.Valid), len(result.Errors))
	}
}

func TestParseJSON_Malformed(t *testing.T) {
	if _, err := ParseJSON([]byte(`{{`)); err == nil {
		t.Fatal("expected error for malformed json")
	}
	if _, err := ParseJSON([]byte(`"just a string"`)); err == nil {
		t.Fatal("expected error for scalar json")
	}
}

func TestSummary(t *testing.T) {
	data := csvBatch(
		"se-1,streeteasy,https://streeteasy.com/1,One,1 A St,2000,1,false",
		"se-2,streeteasy,not-a-url,Two,2 B St,2100,1,false",
	)
	result, err := ParseCSV(strings.NewReader(data))
	if err != nil {
		t.Fatalf("ParseCSV() failed: %v", err)
	}

	summary := Summary(result, "listings.csv", FormatCSV)
	for _, want := range []string{
		"Import Summary for listings.csv:",
		"- Format: CSV",
		"- Total records: 2",
		"- Successfully parsed: 1",
		"- Errors: 1",
		"- Success rate: 50%",
		"First few errors:",
		"Row 2:",
	} {
		if !strings.Contains(summary, want) {
			t.Errorf("summary missing %q:\n%s", want, summary)
		}
	}
}
