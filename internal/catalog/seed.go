package catalog

import "github.com/mnavarro-dev/storefront-backend/pkg/types"

// seedProducts is the bundled catalog served when no upstream is configured
// or the upstream fetch fails. It doubles as fixture data in development.
var seedProducts = []types.Product{
	{
		ID:       "1",
		Name:     "Premium Wireless Headphones",
		Price:    129.99,
		Category: "Electronics",
		Image:    "https://picsum.photos/400/400?random=1",
	},
	{
		ID:       "2",
		Name:     "Organic Green Tea Set",
		Price:    24.50,
		Category: "Beverages",
		Image:    "https://picsum.photos/400/400?random=2",
	},
	{
		ID:       "3",
		Name:     "Ergonomic Office Chair",
		Price:    199.00,
		Category: "Furniture",
		Image:    "https://picsum.photos/400/400?random=3",
	},
	{
		ID:       "4",
		Name:     "Smart Fitness Watch",
		Price:    89.99,
		Category: "Wearables",
		Image:    "https://picsum.photos/400/400?random=4",
	},
	{
		ID:       "5",
		Name:     "Artisan Coffee Beans",
		Price:    18.00,
		Category: "Beverages",
		Image:    "https://picsum.photos/400/400?random=5",
	},
	{
		ID:       "6",
		Name:     "Minimalist Backpack",
		Price:    45.99,
		Category: "Accessories",
		Image:    "https://picsum.photos/400/400?random=6",
	},
}

// SeedProducts returns a copy of the bundled catalog.
func SeedProducts() []types.Product {
	out := make([]types.Product, len(seedProducts))
	copy(out, seedProducts)
	return out
}
