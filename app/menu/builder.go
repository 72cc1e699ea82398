package menu

import (
	"strings"
)

// Builder assembles the two-level display model (category -> groups +
// individual items) from normalized rows. Pure and total: rows it cannot
// interpret are skipped, never reported. Resilience to spreadsheet editing
// mistakes is the deliberate policy here, not strict validation.
type Builder struct {
	placeholderImage string
}

func NewBuilder(placeholderImage string) *Builder {
	return &Builder{placeholderImage: placeholderImage}
}

func (b *Builder) Run(rows []Row) *Model {
	model := &Model{
		Categories:    []*Category{},
		Announcements: []Announcement{},
	}
	buckets := make(map[string]*Category)

	for _, row := range rows {
		category := row.Get("category")

		// Announcement rows are diverted before the name check and
		// contribute nothing to the category model.
		if foldEqual(category, "announcement") {
			model.Announcements = append(model.Announcements, Announcement{
				Name:        row.Name(),
				Description: row.Get("description"),
			})
			continue
		}

		if category == "" {
			category = DefaultCategory
		}

		name := row.Name()
		if name == "" {
			continue
		}

		bucket, ok := buckets[category]
		if !ok {
			bucket = &Category{
				Name:       category,
				Groups:     []*Group{},
				Items:      []Item{},
				groupIndex: make(map[string]*Group),
			}
			buckets[category] = bucket
			model.Categories = append(model.Categories, bucket)
		}

		if groupName := row.Get("groupingname"); groupName != "" {
			group, ok := bucket.groupIndex[groupName]
			if !ok {
				// First row introducing the group fixes its description and
				// image; later rows never overwrite them.
				group = &Group{
					Name:        groupName,
					Description: row.Get("description"),
					Image:       row.Get("groupimage"),
					Items:       []GroupItem{},
				}
				bucket.groupIndex[groupName] = group
				bucket.Groups = append(bucket.Groups, group)
			}

			// The special flag is intentionally not propagated to group
			// members.
			group.Items = append(group.Items, GroupItem{
				Name:  name,
				Price: formatPrice(row.Get("price")),
				Badge: row.Get("badge"),
			})
			continue
		}

		image := row.Get("image")
		if image == "" {
			image = b.placeholderImage
		}

		bucket.Items = append(bucket.Items, Item{
			Name:        name,
			Description: row.Get("description"),
			Price:       formatPrice(row.Get("price")),
			Image:       image,
			Special:     row.Special(),
			Badge:       row.Get("badge"),
			RibbonText:  row.RibbonText(),
		})
	}

	return model
}

// formatPrice applies the currency prefix exactly once.
func formatPrice(price string) string {
	if price == "" || strings.HasPrefix(price, "$") {
		return price
	}
	return "$" + price
}
