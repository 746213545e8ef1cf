// Copyright 2025 the DAAM authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package maskops

import "fmt"

// COCO80Labels are the 80 fine-grained COCO object categories, in vocabulary
// order.
var COCO80Labels = []string{
	"person", "bicycle", "car", "motorcycle", "airplane", "bus", "train", "truck", "boat", "traffic light",
	"fire hydrant", "stop sign", "parking meter", "bench", "bird", "cat", "dog", "horse", "sheep", "cow",
	"elephant", "bear", "zebra", "giraffe", "backpack", "umbrella", "handbag", "tie", "suitcase", "frisbee",
	"skis", "snowboard", "sports ball", "kite", "baseball bat", "baseball glove", "skateboard", "surfboard",
	"tennis racket", "bottle", "wine glass", "cup", "fork", "knife", "spoon", "bowl", "banana", "apple",
	"sandwich", "orange", "broccoli", "carrot", "hot dog", "pizza", "donut", "cake", "chair", "couch",
	"potted plant", "bed", "dining table", "toilet", "tv", "laptop", "mouse", "remote", "keyboard", "cell phone",
	"microwave", "oven", "toaster", "sink", "refrigerator", "book", "clock", "vase", "scissors", "teddy bear",
	"hair drier", "toothbrush",
}

// COCOStuff27Labels are the 27 coarse COCO-Stuff categories.
var COCOStuff27Labels = []string{
	"electronic", "appliance", "food", "furniture", "indoor", "kitchen", "accessory", "animal", "outdoor", "person",
	"sports", "vehicle", "ceiling", "floor", "food", "furniture", "rawmaterial", "textile", "wall", "window",
	"building", "ground", "plant", "sky", "solid", "structural", "water",
}

// COCO80To27 maps fine-grained COCO-80 labels onto coarse COCO-Stuff-27
// categories. Labels absent from the table pass through unchanged.
var COCO80To27 = map[string]string{
	"bicycle": "vehicle", "car": "vehicle", "motorcycle": "vehicle", "airplane": "vehicle", "bus": "vehicle",
	"train": "vehicle", "truck": "vehicle", "boat": "vehicle", "traffic light": "accessory", "fire hydrant": "accessory",
	"stop sign": "accessory", "parking meter": "accessory", "bench": "furniture", "bird": "animal", "cat": "animal",
	"dog": "animal", "horse": "animal", "sheep": "animal", "cow": "animal", "elephant": "animal", "bear": "animal",
	"zebra": "animal", "giraffe": "animal", "backpack": "accessory", "umbrella": "accessory", "handbag": "accessory",
	"tie": "accessory", "suitcase": "accessory", "frisbee": "sports", "skis": "sports", "snowboard": "sports",
	"sports ball": "sports", "kite": "sports", "baseball bat": "sports", "baseball glove": "sports",
	"skateboard": "sports", "surfboard": "sports", "tennis racket": "sports", "bottle": "food", "wine glass": "food",
	"cup": "food", "fork": "food", "knife": "food", "spoon": "food", "bowl": "food", "banana": "food", "apple": "food",
	"sandwich": "food", "orange": "food", "broccoli": "food", "carrot": "food", "hot dog": "food", "pizza": "food",
	"donut": "food", "cake": "food", "chair": "furniture", "couch": "furniture", "potted plant": "plant",
	"bed": "furniture", "dining table": "furniture", "toilet": "furniture", "tv": "electronic", "laptop": "electronic",
	"mouse": "electronic", "remote": "electronic", "keyboard": "electronic", "cell phone": "electronic",
	"microwave": "appliance", "oven": "appliance", "toaster": "appliance", "sink": "appliance",
	"refrigerator": "appliance", "book": "indoor", "clock": "indoor", "vase": "indoor", "scissors": "indoor",
	"teddy bear": "indoor", "hair drier": "indoor", "toothbrush": "indoor",
}

// UnusedLabels is the fallback vocabulary for composite mask images whose
// pixel values have no externally supplied label list.
var UnusedLabels = makeUnusedLabels(200)

func makeUnusedLabels(n int) []string {
	labels := make([]string, n)
	for i := range labels {
		labels[i] = fmt.Sprintf("__unused_%d__", i+1)
	}
	return labels
}
