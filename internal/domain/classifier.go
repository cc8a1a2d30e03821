package domain

import "sort"

// TagSet is a deduplicated set of category tags
type TagSet map[string]struct{}

// NewTagSet builds a set from tags
func NewTagSet(tags ...string) TagSet {
	s := make(TagSet, len(tags))
	for _, t := range tags {
		s[t] = struct{}{}
	}
	return s
}

// Has reports whether tag is in the set
func (s TagSet) Has(tag string) bool {
	_, ok := s[tag]
	return ok
}

// Sorted returns the tags in lexical order
func (s TagSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for t := range s {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// ProductTypeClassifier derives category tags from order line items
type ProductTypeClassifier struct {
	config ClassifierConfig
}

// NewProductTypeClassifier creates a classifier over the given rules
func NewProductTypeClassifier(config ClassifierConfig) *ProductTypeClassifier {
	return &ProductTypeClassifier{config: config}
}

// Classify tags each item with its first matching rule, then adds the order-size tags.
// Unmatched items contribute nothing.
func (c *ProductTypeClassifier) Classify(items []OrderItem) TagSet {
	tags := make(TagSet)
	for _, item := range items {
		if tag, ok := c.classifyItem(item); ok {
			tags[tag] = struct{}{}
		}
	}

	if c.config.BulkOrderTag != "" && len(items) > c.config.BulkOrderAbove {
		tags[c.config.BulkOrderTag] = struct{}{}
	}
	if c.config.MultipleItemsTag != "" && len(items) > c.config.MultipleItemsAbove {
		tags[c.config.MultipleItemsTag] = struct{}{}
	}
	return tags
}

func (c *ProductTypeClassifier) classifyItem(item OrderItem) (string, bool) {
	text := itemText(item)
	for _, rule := range c.config.Rules {
		if !containsAny(text, rule.Keywords) {
			continue
		}
		if rule.SetTag != "" && (item.Quantity > 1 || (rule.SetKeyword != "" && containsAny(text, []string{rule.SetKeyword}))) {
			return rule.SetTag, true
		}
		return rule.Tag, true
	}
	return "", false
}
