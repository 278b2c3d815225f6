package health

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"
)

var fixedNow = time.Date(2024, 5, 20, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func recordXML(typ, start, end, value string) string {
	return fmt.Sprintf(`  <Record type=%q sourceName="Watch" unit="x" startDate=%q endDate=%q value=%q/>`+"\n", typ, start, end, value)
}

func exportXML(records ...string) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString("<!DOCTYPE HealthData [\n<!ELEMENT HealthData (ExportDate,Me,(Record|Workout)*)>\n]>\n")
	b.WriteString(`<HealthData locale="en_US">` + "\n")
	b.WriteString(`  <ExportDate value="2024-05-20 12:00:00 +0000"/>` + "\n")
	b.WriteString(`  <Me HKCharacteristicTypeIdentifierBiologicalSex="HKBiologicalSexNotSet"/>` + "\n")
	for _, r := range records {
		b.WriteString(r)
	}
	b.WriteString("</HealthData>\n")
	return b.String()
}

func zipBytes(t *testing.T, files map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, body := range files {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("zip create: %v", err)
		}
		if _, err := w.Write([]byte(body)); err != nil {
			t.Fatalf("zip write: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zip close: %v", err)
	}
	return buf.Bytes()
}

func sampleExport() string {
	return exportXML(
		recordXML("HKQuantityTypeIdentifierStepCount", "2024-05-10 08:00:00 +0000", "2024-05-10 08:30:00 +0000", "1200"),
		recordXML("HKQuantityTypeIdentifierStepCount", "2024-05-10 17:00:00 +0000", "2024-05-10 17:30:00 +0000", "800"),
		recordXML("HKQuantityTypeIdentifierHeartRateVariabilitySDNN", "2024-05-10 03:00:00 +0000", "2024-05-10 03:01:00 +0000", "40"),
		recordXML("HKQuantityTypeIdentifierHeartRateVariabilitySDNN", "2024-05-10 04:00:00 +0000", "2024-05-10 04:01:00 +0000", "60"),
		recordXML("HKQuantityTypeIdentifierOxygenSaturation", "2024-05-10 02:00:00 +0000", "2024-05-10 02:00:00 +0000", "0.97"),
		recordXML("HKQuantityTypeIdentifierOxygenSaturation", "2024-05-10 05:00:00 +0000", "2024-05-10 05:00:00 +0000", "98"),
		recordXML("HKQuantityTypeIdentifierActiveEnergyBurned", "2024-05-10 09:00:00 +0000", "2024-05-10 10:00:00 +0000", "300"),
		recordXML("HKQuantityTypeIdentifierBasalEnergyBurned", "2024-05-10 09:00:00 +0000", "2024-05-10 10:00:00 +0000", "1500"),
		recordXML("HKCategoryTypeIdentifierSleepAnalysis", "2024-05-11 23:00:00 +0000", "2024-05-12 06:30:00 +0000", "HKCategoryValueSleepAnalysisAsleep"),
		recordXML("HKCategoryTypeIdentifierMindfulSession", "2024-05-11 12:00:00 +0000", "2024-05-11 12:10:00 +0000", ""),
		recordXML("HKQuantityTypeIdentifierActiveEnergyBurned", "2024-05-11 09:00:00 +0000", "2024-05-11 10:00:00 +0000", "250"),
		recordXML("HKQuantityTypeIdentifierBodyMass", "2024-05-10 09:00:00 +0000", "2024-05-10 09:00:00 +0000", "70"),
		recordXML("HKQuantityTypeIdentifierStepCount", "2023-12-01 08:00:00 +0000", "2023-12-01 08:30:00 +0000", "5000"),
	)
}
