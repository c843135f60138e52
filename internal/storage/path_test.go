package storage

import "testing"

func TestBuildDatasetFilePath(t *testing.T) {
	key, err := BuildDatasetFilePath("tpch_sf_1", "lineitem.parquet")
	if err != nil {
		t.Fatalf("BuildDatasetFilePath() error = %v", err)
	}
	if key != "tpch_sf_1/lineitem.parquet" {
		t.Fatalf("key = %q", key)
	}
}

func TestBuildDatasetFilePathAcceptsScaleFactorDot(t *testing.T) {
	key, err := BuildDatasetFilePath("tpch_sf_0.01", "orders.parquet")
	if err != nil {
		t.Fatalf("BuildDatasetFilePath() error = %v", err)
	}
	if key != "tpch_sf_0.01/orders.parquet" {
		t.Fatalf("key = %q", key)
	}
}

func TestBuildDatasetFilePathRejectsTraversal(t *testing.T) {
	if _, err := BuildDatasetFilePath("../etc", "passwd"); err == nil {
		t.Fatal("expected error for traversal dataset name")
	}
	if _, err := BuildDatasetFilePath("tpch_sf_1", "a/b.parquet"); err == nil {
		t.Fatal("expected error for file name with separator")
	}
	if _, err := BuildDatasetFilePath("", "orders.parquet"); err == nil {
		t.Fatal("expected error for empty dataset name")
	}
}
