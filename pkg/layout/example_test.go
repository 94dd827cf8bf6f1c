package layout_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/stresslayout/pkg/layout"
)

func ExampleLayout() {
	links := []layout.Link{
		{Source: 0, Target: 1},
		{Source: 1, Target: 2},
		{Source: 2, Target: 0},
	}
	l := layout.New(nil, links, layout.Options{LinkDistance: 50})
	if err := l.Run(context.Background()); err != nil {
		fmt.Println(err)
		return
	}
	ns := l.Nodes()
	for _, e := range links {
		dx, dy := ns[e.Source].X-ns[e.Target].X, ns[e.Source].Y-ns[e.Target].Y
		fmt.Printf("%.1f\n", dx*dx+dy*dy)
	}
	// Output:
	// 2500.0
	// 2500.0
	// 2500.0
}
