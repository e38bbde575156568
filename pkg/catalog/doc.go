/*
Package catalog holds the immutable set of cookable recipes.

A Catalog is validated once at construction: any structural problem (missing
first step, gaps in step numbering, slot names shared between recipes) is a
configuration error and the catalog is never handed out.

Recipes can be loaded from YAML or JSON files using the original wire shape:

	- id: yogurt
	  title: Yogurt
	  slots: [yogurt, greek yogurt]
	  speak: Let's make yogurt!
	  steps:
	    - step: 1
	      speak: Heat the milk.
	      display: Heat milk to 85°C
	      summary: Heating milk
	      alarm_high: 85
*/
package catalog
