package client

// Query documents accepted by both storefronts without authentication.
// Filters and sort arguments are deliberately absent: the unauthenticated
// endpoints reject them.

const productSearchQuery = `
query ProductSearch($currentPage: Int, $inputText: String!, $pageSize: Int) {
  products(currentPage: $currentPage, pageSize: $pageSize, search: $inputText) {
    items {
      id
      uid
      name
      sku
      price_range {
        maximum_price {
          final_price { currency value }
          regular_price { currency value }
        }
      }
      small_image { url }
      stock_status
      url_key
      categories { uid name }
    }
    total_count
    page_info { total_pages }
  }
}`

const storeListQuery = `
query StoreList {
  storeList {
    name
    code
  }
}`
