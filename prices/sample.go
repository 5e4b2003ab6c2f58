package prices

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

var sample = []struct {
	offer string
	price int
}{
	{"12345", 15000},
	{"67890", 25000},
	{"11111", 3000},
	{"22222", 5000},
	{"33333", 12000},
}

// CreateSample writes an example recommended prices workbook for the mock catalog.
func CreateSample(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	if err := f.SetSheetRow(sheet, "A1", &[]any{"Offer ID", "Recommended price"}); err != nil {
		return err
	}

	for i, v := range sample {
		if err := f.SetSheetRow(sheet, fmt.Sprintf("A%v", i+2), &[]any{v.offer, v.price}); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("unable to create sample recommended prices file %v (%w)", path, err)
	}

	return nil
}
