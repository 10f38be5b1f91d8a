package service

import (
	"fmt"

	"fabtopo/internal/domain"
)

const (
	testSubnetA = "0xfe80000000000000"
	testSubnetB = "0xfe80000000000001"
)

func guid(i int) string {
	return fmt.Sprintf("0x%016x", 0x0011750100000000+i)
}

func canonical(i int) string {
	id, err := domain.CanonicalID(guid(i))
	if err != nil {
		panic(err)
	}
	return id
}

func hostRecord(i int, desc, subnet string) domain.NodeRecord {
	return domain.NodeRecord{
		GUID:        guid(i),
		Description: desc,
		TypeCode:    domain.HostTypeCode,
		Ports: []domain.PortRecord{
			{ID: fmt.Sprintf("%s:1", guid(i)), Number: "1", SubnetPrefix: subnet, LinkWidth: "4", LinkSpeed: "2"},
		},
	}
}

func switchRecord(i int, desc, subnet string, ports int) domain.NodeRecord {
	rec := domain.NodeRecord{GUID: guid(i), Description: desc, TypeCode: 2}
	for p := 1; p <= ports; p++ {
		rec.Ports = append(rec.Ports, domain.PortRecord{
			ID:           fmt.Sprintf("%s:%d", guid(i), p),
			Number:       fmt.Sprint(p),
			SubnetPrefix: subnet,
			LinkWidth:    "4",
			LinkSpeed:    "2",
		})
	}
	return rec
}

func linkRecord(a int, aPort string, b int, bPort string) domain.LinkRecord {
	return domain.LinkRecord{
		A: domain.EndpointRecord{GUID: guid(a), Port: aPort},
		B: domain.EndpointRecord{GUID: guid(b), Port: bPort},
	}
}

func newTestPipeline() *Pipeline {
	return NewPipeline(Options{Label: "omnipath", Gbits: domain.DefaultGbits}, nil, nil)
}
