package handlers

import (
	"fmt"
	"math"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/username/megamart/backend/src/models"
	"github.com/username/megamart/backend/src/stores"
)

// formatVND renders a price as a whole-dong amount with thousands separators.
func formatVND(v float64) string {
	return humanize.CommafWithDigits(math.Round(v), 0)
}

func formatProducts(products []models.Product) string {
	var sb strings.Builder
	for i := range products {
		p := &products[i]
		fmt.Fprintf(&sb, "### %d. %s\n", i+1, p.Name)
		fmt.Fprintf(&sb, "- **Price:** %s VND", formatVND(p.FinalPrice()))
		if p.PriceRange.HasDiscount() {
			fmt.Fprintf(&sb, " ~~%s VND~~ (-%.0f%%)", formatVND(p.RegularPrice()), p.PriceRange.DiscountPercentage())
		}
		fmt.Fprintf(&sb, "\n- **SKU:** %s\n", p.SKU)
		fmt.Fprintf(&sb, "- **Stock:** %s\n", p.StockStatus)
		fmt.Fprintf(&sb, "- [View Product](%s)\n\n", p.URL())
	}
	return sb.String()
}

func formatComparisons(term string, comparisons []models.PriceComparison) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Price Comparison for '%s'\n\n", term)
	fmt.Fprintf(&sb, "Comparing %d products between B2C (retail) and B2B (wholesale)\n\n", len(comparisons))

	shown := comparisons
	if len(shown) > 10 {
		shown = shown[:10]
	}
	for i, comp := range shown {
		fmt.Fprintf(&sb, "## %d. %s\n", i+1, comp.Name)
		fmt.Fprintf(&sb, "- **SKU:** %s\n", comp.SKU)
		fmt.Fprintf(&sb, "- **B2C Price:** %s VND\n", formatVND(comp.B2CPrice))
		fmt.Fprintf(&sb, "- **B2B Price:** %s VND\n", formatVND(comp.B2BPrice))

		switch {
		case comp.Difference > 0:
			fmt.Fprintf(&sb, "- **Savings:** %s VND (%.1f%% cheaper on B2B) ✓\n",
				formatVND(comp.Difference), comp.SavingsPercentage)
		case comp.Difference < 0:
			fmt.Fprintf(&sb, "- **Difference:** %s VND (%.1f%% more expensive on B2B)\n",
				formatVND(-comp.Difference), math.Abs(comp.SavingsPercentage))
		default:
			sb.WriteString("- **Same price on both platforms**\n")
		}
		fmt.Fprintf(&sb, "- [B2C Link](%s) | [B2B Link](%s)\n\n", comp.B2CURL, comp.B2BURL)
	}

	var cheaperCount int
	var totalSavings, savingsPctSum float64
	for _, comp := range comparisons {
		if comp.Difference > 0 {
			cheaperCount++
			totalSavings += comp.Difference
			savingsPctSum += comp.SavingsPercentage
		}
	}
	var avgSavings float64
	if cheaperCount > 0 {
		avgSavings = savingsPctSum / float64(cheaperCount)
	}

	sb.WriteString("\n**Summary:**\n")
	fmt.Fprintf(&sb, "- Products cheaper on B2B: %d\n", cheaperCount)
	fmt.Fprintf(&sb, "- Average B2B savings: %.1f%%\n", avgSavings)
	fmt.Fprintf(&sb, "- Total potential savings: %s VND\n", formatVND(totalSavings))

	return sb.String()
}

func formatStores(list []stores.Location) string {
	var sb strings.Builder
	sb.WriteString("# MM Mega Market Store Locations\n\n")

	if len(list) == 0 {
		sb.WriteString("No stores found.\n")
		return sb.String()
	}

	for _, store := range list {
		region := store.Region
		if region == "" {
			region = "Unknown"
		}
		fmt.Fprintf(&sb, "- **%s**\n", store.Name)
		fmt.Fprintf(&sb, "  - Code: `%s`\n", store.Code)
		fmt.Fprintf(&sb, "  - Region: %s\n", region)
		fmt.Fprintf(&sb, "  - B2C Store Code: `%s`\n", store.B2CStoreCode())
		fmt.Fprintf(&sb, "  - B2B Store Code: `%s`\n\n", store.B2BStoreCode())
	}
	return sb.String()
}

func formatProductDetails(p *models.Product) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", p.Name)
	fmt.Fprintf(&sb, "- **SKU:** %s\n", p.SKU)
	fmt.Fprintf(&sb, "- **Product ID:** %d\n", p.ID)
	fmt.Fprintf(&sb, "- **Price:** %s %s\n", formatVND(p.FinalPrice()), p.PriceRange.FinalPrice.Currency)

	if p.PriceRange.HasDiscount() {
		fmt.Fprintf(&sb, "- **Regular Price:** %s VND\n", formatVND(p.RegularPrice()))
		fmt.Fprintf(&sb, "- **Discount:** %s VND (%.1f%% off)\n",
			formatVND(p.PriceRange.DiscountAmount), p.PriceRange.DiscountPercentage())
	}

	stockMark := "✗"
	if p.InStock() {
		stockMark = "✓"
	}
	fmt.Fprintf(&sb, "- **Stock:** %s %s\n", p.StockStatus, stockMark)
	fmt.Fprintf(&sb, "- **Platform:** %s\n", strings.ToUpper(string(p.Platform)))

	if len(p.Categories) > 0 {
		names := make([]string, 0, len(p.Categories))
		for _, cat := range p.Categories {
			names = append(names, cat.Name)
		}
		fmt.Fprintf(&sb, "- **Categories:** %s\n", strings.Join(names, ", "))
	}
	if p.RatingSummary != nil {
		fmt.Fprintf(&sb, "- **Rating:** %g/100\n", *p.RatingSummary)
	}

	fmt.Fprintf(&sb, "- **URL:** %s\n", p.URL())
	if p.ImageURL != "" {
		fmt.Fprintf(&sb, "- **Image:** %s\n", p.ImageURL)
	}
	return sb.String()
}
